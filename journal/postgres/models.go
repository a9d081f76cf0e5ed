package postgres

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/confess/id"
	"github.com/xraph/confess/journal"
)

type entryModel struct {
	grove.BaseModel `grove:"table:confess_journal"`

	Seq        int64           `grove:"seq,pk"`
	ID         string          `grove:"id"`
	Kind       string          `grove:"kind"`
	Payload    json.RawMessage `grove:"payload,type:jsonb"`
	RequestKey string          `grove:"request_key"`
	At         time.Time       `grove:"at"`
}

func toEntryModel(e *journal.Entry) *entryModel {
	return &entryModel{
		Seq:        int64(e.Seq),
		ID:         e.ID.String(),
		Kind:       e.Kind,
		Payload:    e.Payload,
		RequestKey: e.RequestKey,
		At:         e.At.UTC(),
	}
}

func fromEntryModel(m *entryModel) (*journal.Entry, error) {
	opID, err := id.ParseOperationID(m.ID)
	if err != nil {
		return nil, err
	}
	return &journal.Entry{
		Seq:        uint64(m.Seq),
		ID:         opID,
		Kind:       m.Kind,
		Payload:    m.Payload,
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
