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
)

type Bulletin struct{ ent.Schema }

func (Bulletin) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "bulletins"},
	}
}

func (Bulletin) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.UUID("upload_id", uuid.UUID{}),
		field.String("dossier_id").Optional(),
		field.String("identifiant_unique").Optional(),

		// insured person
		field.String("nom").Optional(),
		field.String("prenom").Optional(),
		field.String("adresse").Optional(),
		field.String("code_postal").Optional(),
		field.String("num_tel").Optional(),
		field.Bool("cnrps").Default(false),
		field.Bool("cnss").Default(false),
		field.Bool("convbi").Default(false),
		field.Bool("assure_social").Default(false),

		// patient
		field.String("nom_malade").Optional(),
		field.String("prenom_malade").Optional(),
		field.String("nom_prenom_malade").Optional(),
		field.String("date_naissance").Optional(),
		field.Bool("conjoint").Default(false),
		field.Bool("enfant").Default(false),
		field.Bool("ascendant").Default(false),

		// care type
		field.Bool("apci").Default(false),
		field.Bool("mo").Default(false),
		field.Bool("hospitalisation_check").Default(false),
		field.Bool("suivi_grossesse_check").Default(false),
		field.String("date_prevu").Optional(),

		// the eight clinical tables keyed by their record field name,
		// each a list of column-keyed rows
		field.JSON("clinical_tables", map[string][]map[string]string{}).
			Optional().
			SchemaType(map[string]string{dialect.Postgres: "jsonb"}),

		field.Time("created_at").Default(time.Now),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (Bulletin) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("upload", Upload.Type).
			Ref("bulletins").
			Field("upload_id").
			Required().
			Unique(),
	}
}

func (Bulletin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("upload_id"),
		index.Fields("dossier_id"),
	}
}
