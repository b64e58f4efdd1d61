package store

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent"
	entsql "entgo.io/ent/dialect/sql"
	entschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/mindcheck/mindcheck/ent/schema"
)

const (
	tableResults       = "assessment_results"
	tableSnapshots     = "attempt_snapshots"
	tableSessionEvents = "session_events"
)

// entities maps each table to the ent schema that declares it.
var entities = []struct {
	table  string
	schema ent.Interface
}{
	{tableResults, schema.AssessmentResult{}},
	{tableSnapshots, schema.AttemptSnapshot{}},
	{tableSessionEvents, schema.SessionEvent{}},
}

// migrate creates or extends the tables declared in ent/schema using
// ent's append-only migrator.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	tables := make([]*entschema.Table, 0, len(entities))
	for _, e := range entities {
		t, err := tableFromSchema(e.table, e.schema)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}

	m, err := entschema.NewMigrate(drv, entschema.WithForeignKeys(false))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, tables...)
}

// tableFromSchema converts an ent schema declaration, including its
// mixins, into a migration table with an auto-increment id.
func tableFromSchema(name string, s ent.Interface) (*entschema.Table, error) {
	t := entschema.NewTable(name).
		AddPrimary(&entschema.Column{Name: "id", Type: field.TypeInt, Increment: true})

	var fields []ent.Field
	var indexes []ent.Index
	for _, mx := range s.Mixin() {
		fields = append(fields, mx.Fields()...)
		indexes = append(indexes, mx.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		col := &entschema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional,
			Size:     int64(d.Size),
			Comment:  d.Comment,
		}
		if d.StorageKey != "" {
			col.Name = d.StorageKey
		}
		switch v := d.Default.(type) {
		case string, int, int64, bool:
			col.Default = v
		}
		t.AddColumn(col)
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		idxName := name + "_" + strings.Join(d.Fields, "_")
		if d.StorageKey != "" {
			idxName = d.StorageKey
		}
		t.AddIndex(idxName, d.Unique, d.Fields)
	}
	return t, nil
}
