package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"

	"github.com/Smaail0/ocr-extraction-demo/constants"
	"github.com/Smaail0/ocr-extraction-demo/db/ent/schema/utils"
)

type Upload struct {
	ent.Schema
}

func (Upload) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "uploads"},
	}
}

func (Upload) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.String("source_path").NotEmpty(),
		field.Bytes("content_hash").NotEmpty().
			SchemaType(map[string]string{dialect.Postgres: "bytea"}),
		field.String("filename").NotEmpty(),
		field.String("file_ext").NotEmpty(),
		field.Int("file_size").NonNegative(),
		// set once the classifier has run; "unknown" scans keep it empty
		field.String("form_type").Optional().
			Validate(utils.EnumValidator(constants.FormTypes...)),
		field.String("status").Default(string(constants.JobStatusQueued)).
			Validate(utils.EnumValidator(constants.JobStatuses...)),
		field.Time("uploaded_at").Default(time.Now),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (Upload) Edges() []ent.Edge {
	return []ent.Edge{
		// ONE upload -> MANY jobs
		edge.To("jobs", ExtractJob.Type),
		// ONE upload -> at most one record per form type
		edge.To("bulletins", Bulletin.Type),
		edge.To("prescriptions", Prescription.Type),
	}
}

func (Upload) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("content_hash").Unique(),
		index.Fields("status", "uploaded_at"),
	}
}
