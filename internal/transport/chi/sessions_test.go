package chi

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/faqdex/internal/domain"
	"github.com/kailas-cloud/faqdex/internal/usecase/retrieval"
)

func TestSessionRegistry_CreateIssuesDistinctTokens(t *testing.T) {
	reg := newSessionRegistry(time.Minute)
	res := retrieval.Result{Matches: rankedMatches(5, 0.8), Outcome: retrieval.OutcomeOK}

	id1, view1 := reg.create(10, res, "")
	id2, _ := reg.create(10, res, "")

	if id1 == "" || id1 == id2 {
		t.Fatalf("tokens = %q, %q, want distinct non-empty", id1, id2)
	}
	if len(view1.visible) != 5 || view1.total != 5 {
		t.Errorf("view = %d of %d, want 5 of 5", len(view1.visible), view1.total)
	}
}

func TestSessionRegistry_CreateDropsReplacedToken(t *testing.T) {
	reg := newSessionRegistry(time.Minute)
	res := retrieval.Result{Matches: rankedMatches(5, 0.8), Outcome: retrieval.OutcomeOK}

	old, _ := reg.create(10, res, "")
	reg.create(10, res, old)

	if _, err := reg.expand(old); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expand replaced session: err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionRegistry_ExpandGrowsPrefix(t *testing.T) {
	reg := newSessionRegistry(time.Minute)
	res := retrieval.Result{Matches: rankedMatches(25, 0.8), Outcome: retrieval.OutcomeNarrow}

	id, first := reg.create(10, res, "")
	if len(first.visible) != 10 {
		t.Fatalf("first page = %d, want 10", len(first.visible))
	}

	second, err := reg.expand(id)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(second.visible) != 20 || second.total != 25 {
		t.Errorf("second page = %d of %d, want 20 of 25", len(second.visible), second.total)
	}
}

func TestSessionRegistry_ExpiredSessionNotFound(t *testing.T) {
	reg := newSessionRegistry(time.Nanosecond)
	res := retrieval.Result{Matches: rankedMatches(5, 0.8), Outcome: retrieval.OutcomeOK}

	id, _ := reg.create(10, res, "")
	time.Sleep(time.Millisecond)

	if _, err := reg.expand(id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expand expired session: err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionRegistry_DropUnknownIsNoop(t *testing.T) {
	reg := newSessionRegistry(time.Minute)
	reg.drop("")
	reg.drop("no-such-token")
}
