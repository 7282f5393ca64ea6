package kit

import (
	"context"
	"sort"

	"github.com/FlexEdwin/toolfinder-app/internal/model"
)

// Aggregator produces the ranked kit list for one anonymous session: kits in
// descending like-count order, each annotated with likes_count and
// is_liked_by_user. Both implementations must agree on results for the same
// underlying data; the fallback exists to tolerate partial backend
// deployment, not to diverge in semantics.
type Aggregator interface {
	Kits(ctx context.Context, sessionID string) ([]model.RankedKit, error)
}

// rpcReader is the primary path: one aggregate read computed remotely
type rpcReader interface {
	KitsWithLikes(ctx context.Context, sessionID string) ([]model.RankedKit, error)
}

// scanReader is the fallback path's raw material
type scanReader interface {
	ListKitsWithItems(ctx context.Context) ([]model.Kit, error)
	ListKitLikes(ctx context.Context) ([]model.KitLike, error)
}

type rpcAggregator struct {
	remote rpcReader
}

func (a *rpcAggregator) Kits(ctx context.Context, sessionID string) ([]model.RankedKit, error) {
	return a.remote.KitsWithLikes(ctx, sessionID)
}

// scanAggregator recomputes the aggregation client-side: all kits with their
// items, all like rows, counts and flags derived by matching kit ids.
type scanAggregator struct {
	remote scanReader
}

func (a *scanAggregator) Kits(ctx context.Context, sessionID string) ([]model.RankedKit, error) {
	kits, err := a.remote.ListKitsWithItems(ctx)
	if err != nil {
		return nil, err
	}

	likes, err := a.remote.ListKitLikes(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(kits))
	liked := make(map[string]bool, len(kits))
	for _, like := range likes {
		counts[like.KitID]++
		if like.SessionID == sessionID {
			liked[like.KitID] = true
		}
	}

	ranked := make([]model.RankedKit, 0, len(kits))
	for _, k := range kits {
		ranked = append(ranked, model.RankedKit{
			Kit:           k,
			LikesCount:    counts[k.ID],
			IsLikedByUser: liked[k.ID],
		})
	}

	// Kits arrive newest first, so a stable sort gives the same
	// created_at tie-break as the remote aggregate.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].LikesCount > ranked[j].LikesCount
	})

	return ranked, nil
}
