// Package committer collects Spanner mutations and applies them atomically.
//
// Repositories build mutations instead of writing directly. A use case, or a
// store acting on its behalf, gathers them into a CommitPlan and the Committer
// buffers the whole plan into a single read-write transaction:
//
//	err := comm.ReadWrite(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction, plan *committer.CommitPlan) error {
//	    row, err := txn.ReadRow(ctx, "products", spanner.Key{productID}, cols)
//	    ...
//	    plan.Add(reviewModel.InsertMut(data))
//	    plan.Add(outboxModel.InsertMut(event))
//	    return nil
//	})
//
// Reads inside fn observe the transaction snapshot; the plan is written only
// when fn returns nil. Constraint violations raised by the buffered mutations
// surface from ReadWrite itself, at commit.
package committer

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
)

// CommitPlan is a typed wrapper around Spanner mutations.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored for convenience.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// AddMultiple adds multiple mutations to the plan.
func (cp *CommitPlan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		cp.Add(mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// TxFunc is the body of a read-write transaction. Mutations added to plan are
// buffered after the function returns successfully.
type TxFunc func(ctx context.Context, txn *spanner.ReadWriteTransaction, plan *CommitPlan) error

// Committer provides transaction execution for CommitPlans.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply writes the CommitPlan atomically without reading first.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}
	return nil
}

// ReadWrite runs fn inside a read-write transaction and commits whatever it
// planned. Spanner may re-run fn when the transaction aborts, so a fresh plan
// is created for every attempt.
//
// Errors returned by fn are passed through unwrapped so callers can match
// sentinel values with errors.Is.
func (c *Committer) ReadWrite(ctx context.Context, fn TxFunc) error {
	var fnErr error
	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		plan := NewPlan()
		if fnErr = fn(ctx, txn, plan); fnErr != nil {
			return fnErr
		}
		if plan.IsEmpty() {
			return nil
		}
		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		if fnErr != nil {
			return fnErr
		}
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}
