package stores

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/datatrails/go-datatrails-imt/imt"
	"github.com/datatrails/go-datatrails-imt/treestate"
)

const (
	V1StatePrefix  = "v1/imts"
	V1StateNameFmt = "%s.state"
)

// StatePath returns the object name for a tree's persisted state.
func StatePath(treeID uuid.UUID) string {
	return V1StatePrefix + "/" + fmt.Sprintf(V1StateNameFmt, treeID.String())
}

// Committer loads tree state, applies leaf inserts and stores the result.
//
// Commits against the same tree id are serialized by the committer: two
// inserts computed from the same starting count would silently corrupt the
// frontier, so the guarantee the core demands of its host is enforced
// here. Distinct tree ids commit independently.
type Committer struct {
	log   *zap.SugaredLogger
	store ObjectReaderWriter

	mu    sync.Mutex
	trees map[uuid.UUID]*sync.Mutex
}

func NewCommitter(log *zap.SugaredLogger, store ObjectReaderWriter) *Committer {
	return &Committer{
		log:   log,
		store: store,
		trees: map[uuid.UUID]*sync.Mutex{},
	}
}

func (c *Committer) treeLock(treeID uuid.UUID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.trees[treeID]
	if !ok {
		lock = &sync.Mutex{}
		c.trees[treeID] = lock
	}
	return lock
}

// getTree reads and decodes the persisted state. A tree that has never
// been written is the empty tree, not an error.
func (c *Committer) getTree(ctx context.Context, treeID uuid.UUID) (imt.Tree, error) {
	data, err := c.store.ReadObject(ctx, StatePath(treeID))
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return imt.Tree{}, nil
		}
		return imt.Tree{}, err
	}
	tree, _, err := treestate.DecodeStateV1(data)
	if err != nil {
		return imt.Tree{}, err
	}
	return tree, nil
}

// GetTree returns the current state of the identified tree.
func (c *Committer) GetTree(ctx context.Context, treeID uuid.UUID) (imt.Tree, error) {
	lock := c.treeLock(treeID)
	lock.Lock()
	defer lock.Unlock()
	return c.getTree(ctx, treeID)
}

// Root returns the current root of the identified tree. For a tree that
// has never been committed to this is the empty tree root.
func (c *Committer) Root(ctx context.Context, treeID uuid.UUID) (imt.Hash, error) {
	tree, err := c.GetTree(ctx, treeID)
	if err != nil {
		return imt.Hash{}, err
	}
	return tree.Root(imt.NewHasher()), nil
}

// Commit appends leaves to the identified tree and persists the updated
// state. The whole batch is applied to the stored state before the write
// back; on any error nothing is persisted and the stored state is
// unchanged.
func (c *Committer) Commit(ctx context.Context, treeID uuid.UUID, leaves []imt.Hash) (imt.Tree, error) {
	lock := c.treeLock(treeID)
	lock.Lock()
	defer lock.Unlock()

	tree, err := c.getTree(ctx, treeID)
	if err != nil {
		return imt.Tree{}, err
	}

	hasher := imt.NewHasher()
	for _, leaf := range leaves {
		if err = tree.Insert(hasher, leaf); err != nil {
			return imt.Tree{}, fmt.Errorf("%w: tree %s at count %d", err, treeID, tree.Count)
		}
	}

	data := make([]byte, treestate.StateV1Bytes)
	if err = treestate.EncodeStateV1(data, &tree); err != nil {
		return imt.Tree{}, err
	}
	if err = c.store.WriteObject(ctx, StatePath(treeID), data); err != nil {
		return imt.Tree{}, err
	}

	c.log.Debugf("commit: tree=%s +%d count=%d", treeID, len(leaves), tree.Count)
	return tree, nil
}
