//go:build unit

package commands_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"raffle-engine/internal/domain/draw"
	"raffle-engine/internal/domain/purchase"
	"raffle-engine/internal/domain/raffle"
	"raffle-engine/internal/domain/template"
	"raffle-engine/internal/infra"
	"raffle-engine/internal/usecase/commands"
	"raffle-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the Postgres write model. The unit
// of work mutex serializes transactions the way row locks do, which is what
// the allocation invariants rely on.
type fakeStore struct {
	mu          sync.Mutex
	raffles     map[uuid.UUID]*raffle.Raffle
	purchases   map[uuid.UUID]*purchase.Purchase
	drawRecords map[uuid.UUID]*draw.Record
	templates   map[uuid.UUID]*template.Template
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		raffles:     make(map[uuid.UUID]*raffle.Raffle),
		purchases:   make(map[uuid.UUID]*purchase.Purchase),
		drawRecords: make(map[uuid.UUID]*draw.Record),
		templates:   make(map[uuid.UUID]*template.Template),
	}
}

type fakeUoW struct {
	store *fakeStore
}

func newFakeUoW(store *fakeStore) shared.UnitOfWork {
	return &fakeUoW{store: store}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(ctx, &fakeTx{store: u.store})
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Raffles() shared.RaffleRepository         { return &fakeRaffleRepo{store: t.store} }
func (t *fakeTx) Purchases() shared.PurchaseRepository     { return &fakePurchaseRepo{store: t.store} }
func (t *fakeTx) DrawRecords() shared.DrawRecordRepository { return &fakeDrawRecordRepo{store: t.store} }
func (t *fakeTx) Templates() shared.TemplateRepository     { return &fakeTemplateRepo{store: t.store} }

type fakeRaffleRepo struct {
	store *fakeStore
}

func (r *fakeRaffleRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*raffle.Raffle, error) {
	entity, ok := r.store.raffles[id]
	if !ok {
		return nil, infra.WrapRepoErr("raffle not found", nil, infra.KindNotFound)
	}
	return entity, nil
}

func (r *fakeRaffleRepo) Create(_ context.Context, entity *raffle.Raffle) error {
	if entity.TemplateID() != nil && !entity.IsClosed() {
		for _, existing := range r.store.raffles {
			if existing.TemplateID() != nil && *existing.TemplateID() == *entity.TemplateID() && !existing.IsClosed() {
				return infra.WrapRepoErr("duplicate live raffle", nil, infra.KindDuplicateKey)
			}
		}
	}
	r.store.raffles[entity.ID()] = entity
	return nil
}

func (r *fakeRaffleRepo) Save(_ context.Context, entity *raffle.Raffle) error {
	if _, ok := r.store.raffles[entity.ID()]; !ok {
		return infra.WrapRepoErr("raffle vanished during save", nil, infra.KindNotFound)
	}
	r.store.raffles[entity.ID()] = entity
	return nil
}

func (r *fakeRaffleRepo) ListDue(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, entity := range r.store.raffles {
		if entity.IsLocked() && entity.DrawDeadline() != nil && !entity.DrawDeadline().After(now) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return r.store.raffles[ids[i]].DrawDeadline().Before(*r.store.raffles[ids[j]].DrawDeadline())
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *fakeRaffleRepo) HasLiveForTemplate(_ context.Context, templateID uuid.UUID) (bool, error) {
	for _, entity := range r.store.raffles {
		if entity.TemplateID() != nil && *entity.TemplateID() == templateID && !entity.IsClosed() {
			return true, nil
		}
	}
	return false, nil
}

type fakePurchaseRepo struct {
	store *fakeStore
}

func (r *fakePurchaseRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	entity, ok := r.store.purchases[id]
	if !ok {
		return nil, infra.WrapRepoErr("purchase not found", nil, infra.KindNotFound)
	}
	return entity, nil
}

func (r *fakePurchaseRepo) Create(_ context.Context, entity *purchase.Purchase) error {
	r.store.purchases[entity.ID()] = entity
	return nil
}

func (r *fakePurchaseRepo) Save(_ context.Context, entity *purchase.Purchase) error {
	if _, ok := r.store.purchases[entity.ID()]; !ok {
		return infra.WrapRepoErr("purchase vanished during save", nil, infra.KindNotFound)
	}
	r.store.purchases[entity.ID()] = entity
	return nil
}

func (r *fakePurchaseRepo) ListPaidByRaffle(_ context.Context, raffleID uuid.UUID) ([]*purchase.Purchase, error) {
	var paid []*purchase.Purchase
	for _, entity := range r.store.purchases {
		if entity.RaffleID() == raffleID && entity.IsPaid() {
			paid = append(paid, entity)
		}
	}
	return paid, nil
}

type fakeDrawRecordRepo struct {
	store *fakeStore
}

func (r *fakeDrawRecordRepo) Create(_ context.Context, rec *draw.Record) error {
	if _, ok := r.store.drawRecords[rec.RaffleID()]; ok {
		return infra.WrapRepoErr("draw record exists", nil, infra.KindDuplicateKey)
	}
	r.store.drawRecords[rec.RaffleID()] = rec
	return nil
}

type fakeTemplateRepo struct {
	store *fakeStore
}

func (r *fakeTemplateRepo) FindByID(_ context.Context, id uuid.UUID) (*template.Template, error) {
	entity, ok := r.store.templates[id]
	if !ok {
		return nil, infra.WrapRepoErr("template not found", nil, infra.KindNotFound)
	}
	return entity, nil
}

func (r *fakeTemplateRepo) ListActive(_ context.Context) ([]*template.Template, error) {
	var active []*template.Template
	for _, entity := range r.store.templates {
		if entity.Active() {
			active = append(active, entity)
		}
	}
	return active, nil
}

func (r *fakeTemplateRepo) Upsert(_ context.Context, entity *template.Template) error {
	r.store.templates[entity.ID()] = entity
	return nil
}

func intPtr(v int) *int                     { return &v }
func floatPtr(v float64) *float64           { return &v }
func moneyPtr(m raffle.Money) *raffle.Money { return &m }

type fakeNotifier struct {
	mu            sync.Mutex
	notifications []commands.WinnerNotification
}

func (n *fakeNotifier) NotifyWinner(_ context.Context, msg commands.WinnerNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, msg)
	return nil
}

func (n *fakeNotifier) sent() []commands.WinnerNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]commands.WinnerNotification, len(n.notifications))
	copy(out, n.notifications)
	return out
}
