package repository

import (
	"context"
	"time"

	"raffle-engine/internal/domain/raffle"
	"raffle-engine/internal/domain/template"
	"raffle-engine/internal/infra"
	"raffle-engine/internal/infra/db"
	"raffle-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type TemplateRepository struct {
	dbtx db.DBTX
}

func NewTemplateRepository(dbtx db.DBTX) *TemplateRepository {
	return &TemplateRepository{dbtx: dbtx}
}

const templateColumns = `
	id, name, capacity, unit_price_cents, prize_cost_cents, margin_percent,
	ticket_count, active, created_at, updated_at`

func (r *TemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*template.Template, error) {
	row := r.dbtx.QueryRow(ctx,
		`SELECT`+templateColumns+` FROM raffle_templates WHERE id = $1`, id)
	entity, err := scanTemplate(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("template not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find template", err)
	}
	return entity, nil
}

func (r *TemplateRepository) ListActive(ctx context.Context) ([]*template.Template, error) {
	rows, err := r.dbtx.Query(ctx,
		`SELECT`+templateColumns+` FROM raffle_templates WHERE active ORDER BY created_at`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active templates", err)
	}
	defer rows.Close()

	var templates []*template.Template
	for rows.Next() {
		entity, scanErr := scanTemplate(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan template", scanErr)
		}
		templates = append(templates, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate templates", err)
	}
	return templates, nil
}

func (r *TemplateRepository) Upsert(ctx context.Context, t *template.Template) error {
	var unitPriceCents *int64
	if p := t.UnitPrice(); p != nil {
		cents := p.Cents()
		unitPriceCents = &cents
	}

	_, err := r.dbtx.Exec(ctx, `
		INSERT INTO raffle_templates (
			id, name, capacity, unit_price_cents, prize_cost_cents,
			margin_percent, ticket_count, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			capacity = EXCLUDED.capacity,
			unit_price_cents = EXCLUDED.unit_price_cents,
			prize_cost_cents = EXCLUDED.prize_cost_cents,
			margin_percent = EXCLUDED.margin_percent,
			ticket_count = EXCLUDED.ticket_count,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at`,
		t.ID(),
		t.Name(),
		t.Capacity(),
		unitPriceCents,
		t.PrizeCost().Cents(),
		t.MarginPercent(),
		t.TicketCount(),
		t.Active(),
		t.CreatedAt(),
		t.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert template", err)
	}
	return nil
}

func scanTemplate(row rowScanner) (*template.Template, error) {
	var (
		id             uuid.UUID
		name           string
		capacity       *int
		unitPriceCents *int64
		prizeCostCents int64
		marginPercent  *float64
		ticketCount    *int
		active         bool
		createdAt      time.Time
		updatedAt      time.Time
	)

	err := row.Scan(
		&id, &name, &capacity, &unitPriceCents, &prizeCostCents,
		&marginPercent, &ticketCount, &active, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	var unitPrice *raffle.Money
	if unitPriceCents != nil {
		m := raffle.NewMoney(*unitPriceCents)
		unitPrice = &m
	}

	return template.New(template.Params{
		ID:            id,
		Name:          name,
		Capacity:      capacity,
		UnitPrice:     unitPrice,
		PrizeCost:     raffle.NewMoney(prizeCostCents),
		MarginPercent: marginPercent,
		TicketCount:   ticketCount,
		Active:        active,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	})
}
