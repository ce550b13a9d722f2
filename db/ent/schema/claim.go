package schema

import (
	"encoding/json"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

type Claim struct{ ent.Schema }

func (Claim) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "claims"},
	}
}

func (Claim) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.UUID("job_id", uuid.UUID{}),
		field.String("filename").NotEmpty(),
		// extracted field strings; "Not Found" marks an absent value
		field.String("patient_name"),
		field.String("policy_number"),
		field.String("claim_amount"),
		field.String("date_of_service"),
		field.String("insurance_provider"),
		field.String("patient_age"),
		field.String("verdict").NotEmpty(),
		field.JSON("checks_json", json.RawMessage{}),
		field.JSON("reputation_json", json.RawMessage{}).Optional(),
		field.JSON("recommendations_json", json.RawMessage{}).Optional(),
		field.Time("created_at").Default(time.Now),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (Claim) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("job_id"),
		index.Fields("verdict"),
		index.Fields("created_at"),
	}
}
