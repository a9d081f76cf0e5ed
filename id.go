package confess

import "github.com/xraph/confess/id"

// ID is the identifier type for journal entries and events.
type ID = id.ID

// Prefix identifies the kind of identifier encoded in a TypeID.
type Prefix = id.Prefix
