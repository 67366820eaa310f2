// Package model is the entity-facing layer over the generic ORM. A
// Model carries per-entity configuration (table name, fillable and
// hidden column sets, cast directives, validation rules) and applies
// it uniformly: writes are filtered through the fillable whitelist
// before they reach storage, reads are cast and stripped of hidden
// columns before they reach the caller. Shaping is presentation only
// and is never persisted back.
package model

import (
	"context"

	"github.com/koustreak/LiteRi/internal/database"
	"github.com/koustreak/LiteRi/internal/orm"
	"github.com/koustreak/LiteRi/internal/validation"
)

// defaultPerPage is the page size used when none is configured.
const defaultPerPage = 15

// Config declares one entity type.
type Config struct {
	// Table is the backing table name.
	Table string

	// PerPage is the default pagination size. Zero means 15.
	PerPage int

	// Fillable lists the columns writes may touch. Empty disables
	// the whitelist.
	Fillable []string

	// Hidden lists columns stripped from every read result.
	Hidden []string

	// Casts maps columns to cast directives, e.g. "int", "bool",
	// "json", "datetime:2006-01-02".
	Casts map[string]string

	// Rules holds the validation declaration for write payloads.
	Rules map[string][]string
}

// Model applies one entity's configuration on top of the ORM.
type Model struct {
	orm *orm.ORM
	cfg Config

	fillable map[string]struct{}
	hidden   map[string]struct{}
	casts    map[string]caster
	rules    validation.RuleSet
}

// New builds a Model. Cast directives and validation rules are parsed
// once here, not per call.
func New(o *orm.ORM, cfg Config) *Model {
	if cfg.PerPage < 1 {
		cfg.PerPage = defaultPerPage
	}

	m := &Model{
		orm:      o,
		cfg:      cfg,
		fillable: make(map[string]struct{}, len(cfg.Fillable)),
		hidden:   make(map[string]struct{}, len(cfg.Hidden)),
		casts:    make(map[string]caster, len(cfg.Casts)),
		rules:    validation.ParseRules(cfg.Rules),
	}
	for _, c := range cfg.Fillable {
		m.fillable[c] = struct{}{}
	}
	for _, c := range cfg.Hidden {
		m.hidden[c] = struct{}{}
	}
	for col, spec := range cfg.Casts {
		m.casts[col] = parseCast(spec)
	}
	return m
}

// Table returns the backing table name.
func (m *Model) Table() string {
	return m.cfg.Table
}

// PerPage returns the default pagination size.
func (m *Model) PerPage() int {
	return m.cfg.PerPage
}

// Validate checks a write payload against the configured rules. The
// result is a plain value; an empty map means the payload is valid.
func (m *Model) Validate(payload map[string]any) validation.Errors {
	return validation.Validate(m.rules, payload)
}

// --- reads ---

// All returns every row, shaped.
func (m *Model) All(ctx context.Context) ([]orm.Record, error) {
	rows, err := m.orm.All(ctx, m.cfg.Table)
	if err != nil {
		return nil, err
	}
	return m.shapeAll(rows), nil
}

// Fetch returns the row with the given id, shaped.
func (m *Model) Fetch(ctx context.Context, id int64) (orm.Record, error) {
	row, err := m.orm.Fetch(ctx, m.cfg.Table, id)
	if err != nil {
		return nil, err
	}
	return m.shape(row), nil
}

// Find returns the first row matching the conditions, shaped.
func (m *Model) Find(ctx context.Context, conds []orm.Condition) (orm.Record, error) {
	row, err := m.orm.Find(ctx, m.cfg.Table, conds)
	if err != nil {
		return nil, err
	}
	return m.shape(row), nil
}

// Count returns the number of rows matching an equality filter. A nil
// filter counts the whole table.
func (m *Model) Count(ctx context.Context, filter map[string]any) (int64, error) {
	return m.orm.Count(ctx, m.cfg.Table, filter)
}

// Paginate returns one shaped page. A perPage below one falls back to
// the configured default.
func (m *Model) Paginate(ctx context.Context, page, perPage int) (*orm.Page, error) {
	if perPage < 1 {
		perPage = m.cfg.PerPage
	}
	p, err := m.orm.Paginate(ctx, m.cfg.Table, page, perPage)
	if err != nil {
		return nil, err
	}
	p.Data = m.shapeAll(p.Data)
	return p, nil
}

// Columns returns the live schema of the backing table.
func (m *Model) Columns(ctx context.Context) ([]database.Column, error) {
	return m.orm.Introspector().Columns(ctx, m.cfg.Table)
}

// Exists reports whether the backing table exists.
func (m *Model) Exists(ctx context.Context) bool {
	return m.orm.TableExists(ctx, m.cfg.Table)
}

// --- writes ---

// Save inserts a payload, filtered to fillable columns, and returns
// the new row id.
func (m *Model) Save(ctx context.Context, payload orm.Record) (int64, error) {
	return m.orm.Save(ctx, m.cfg.Table, m.fill(payload))
}

// SaveBulk inserts the payloads in one transaction, each filtered to
// fillable columns.
func (m *Model) SaveBulk(ctx context.Context, payloads []orm.Record) error {
	filtered := make([]orm.Record, 0, len(payloads))
	for _, p := range payloads {
		filtered = append(filtered, m.fill(p))
	}
	return m.orm.SaveBulk(ctx, m.cfg.Table, filtered)
}

// Update modifies one row by id with a fillable-filtered payload.
func (m *Model) Update(ctx context.Context, id int64, payload orm.Record) error {
	return m.orm.Update(ctx, m.cfg.Table, id, m.fill(payload))
}

// UpdateBulk applies one fillable-filtered payload to many ids in one
// transaction.
func (m *Model) UpdateBulk(ctx context.Context, ids []int64, payload orm.Record) error {
	return m.orm.UpdateBulk(ctx, m.cfg.Table, ids, m.fill(payload))
}

// Delete removes one row by id.
func (m *Model) Delete(ctx context.Context, id int64) error {
	return m.orm.Delete(ctx, m.cfg.Table, id)
}

// DeleteBulk removes many rows in one transaction.
func (m *Model) DeleteBulk(ctx context.Context, ids []int64) error {
	return m.orm.DeleteBulk(ctx, m.cfg.Table, ids)
}

// --- shaping ---

// fill drops payload keys outside the fillable whitelist. An empty
// whitelist passes the payload through untouched.
func (m *Model) fill(payload orm.Record) orm.Record {
	if len(m.fillable) == 0 {
		return payload
	}
	out := make(orm.Record, len(payload))
	for col, v := range payload {
		if _, ok := m.fillable[col]; ok {
			out[col] = v
		}
	}
	return out
}

// shape casts the configured columns, then strips hidden ones.
func (m *Model) shape(row orm.Record) orm.Record {
	for col, c := range m.casts {
		if v, ok := row[col]; ok {
			row[col] = c.apply(v)
		}
	}
	for col := range m.hidden {
		delete(row, col)
	}
	return row
}

func (m *Model) shapeAll(rows []orm.Record) []orm.Record {
	for i, r := range rows {
		rows[i] = m.shape(r)
	}
	return rows
}
