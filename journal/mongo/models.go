package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/confess/id"
	"github.com/xraph/confess/journal"
)

type entryModel struct {
	grove.BaseModel `grove:"table:confess_journal"`

	Seq        int64     `grove:"seq,pk"      bson:"_id"`
	OpID       string    `grove:"op_id"       bson:"op_id"`
	Kind       string    `grove:"kind"        bson:"kind"`
	Payload    string    `grove:"payload"     bson:"payload"`
	RequestKey string    `grove:"request_key" bson:"request_key,omitempty"`
	At         time.Time `grove:"at"          bson:"at"`
}

func toEntryModel(e *journal.Entry) (*entryModel, error) {
	return &entryModel{
		Seq:        int64(e.Seq),
		OpID:       e.ID.String(),
		Kind:       e.Kind,
		Payload:    string(e.Payload),
		RequestKey: e.RequestKey,
		At:         e.At.UTC(),
	}, nil
}

func fromEntryModel(m *entryModel) (*journal.Entry, error) {
	opID, err := id.ParseOperationID(m.OpID)
	if err != nil {
		return nil, err
	}
	return &journal.Entry{
		Seq:        uint64(m.Seq),
		ID:         opID,
		Kind:       m.Kind,
		Payload:    []byte(m.Payload),
		RequestKey: m.RequestKey,
		At:         m.At.UTC(),
	}, nil
}

func fromEntryModels(models []entryModel) ([]*journal.Entry, error) {
	out := make([]*journal.Entry, 0, len(models))
	for i := range models {
		e, err := fromEntryModel(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
