package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"
)

type PrescriptionItem struct{ ent.Schema }

func (PrescriptionItem) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "prescription_items"},
	}
}

func (PrescriptionItem) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.UUID("prescription_id", uuid.UUID{}),
		// original row order on the form
		field.Int("position").NonNegative(),
		field.String("code_pct").Optional(),
		field.String("produit").Optional(),
		field.String("forme").Optional(),
		field.String("qte").Optional(),
		field.String("puv").Optional(),
		field.String("montant_percu").Optional(),
		field.String("nio").Optional(),
		field.String("pr_lot").Optional(),
	}
}

func (PrescriptionItem) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("prescription", Prescription.Type).
			Ref("items").
			Field("prescription_id").
			Required().
			Unique(),
	}
}

func (PrescriptionItem) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("prescription_id", "position"),
	}
}
