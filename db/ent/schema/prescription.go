package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"
)

type Prescription struct{ ent.Schema }

func (Prescription) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "prescriptions"},
	}
}

func (Prescription) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.UUID("upload_id", uuid.UUID{}),

		field.String("pharmacy_name").Optional(),
		field.String("pharmacy_address").Optional().Nillable(),
		field.String("pharmacy_contact").Optional().Nillable(),
		field.String("pharmacy_fiscal_id").Optional().Nillable(),

		field.String("beneficiary_id").Optional(),
		field.String("patient_identity").Optional(),
		field.String("prescriber_code").Optional(),
		field.String("prescription_date").Optional(),
		field.String("regimen").Optional(),
		field.String("dispensation_date").Optional(),

		field.String("executor").Optional(),
		field.String("ref_cnam").Optional(),
		field.String("code_cnam").Optional(),
		field.String("nom_prenom_docteur").Optional(),

		field.String("total").Optional(),
		field.String("signature_crop_file").Optional().Nillable(),

		// set when mapping recovered from a failure; items are empty then
		field.String("error_message").Optional().Nillable(),

		field.Time("created_at").Default(time.Now),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (Prescription) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("upload", Upload.Type).
			Ref("prescriptions").
			Field("upload_id").
			Required().
			Unique(),
		// ONE prescription -> MANY line items
		edge.To("items", PrescriptionItem.Type),
	}
}

func (Prescription) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("upload_id"),
		index.Fields("beneficiary_id"),
	}
}
