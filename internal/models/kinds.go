package models

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// EntityKind is the discriminator code stored in entity.dtype.
type EntityKind string

const (
	EntityKindClaim       EntityKind = "CLA"
	EntityKindDeclaration EntityKind = "DEC"
	EntityKindPerson      EntityKind = "PER"
	EntityKindPublication EntityKind = "PUB"
	EntityKindQuotation   EntityKind = "QUO"
	EntityKindTopic       EntityKind = "TOP"
	EntityKindJournal     EntityKind = "JOU"
	EntityKindPublisher   EntityKind = "PBR"
	EntityKindLink        EntityKind = "LNK"
	EntityKindUser        EntityKind = "USR"
)

var entityKindLabels = map[EntityKind]string{
	EntityKindClaim:       "Claim",
	EntityKindDeclaration: "Declaration",
	EntityKindPerson:      "Person",
	EntityKindPublication: "Publication",
	EntityKindQuotation:   "Quotation",
	EntityKindTopic:       "Topic",
	EntityKindJournal:     "Journal",
	EntityKindPublisher:   "Publisher",
	EntityKindLink:        "Entity link",
	EntityKindUser:        "User",
}

func (k EntityKind) Label() string {
	if l, ok := entityKindLabels[k]; ok {
		return l
	}
	return string(k)
}

// ParseEntityKind accepts a kind code or its label, in any case.
func ParseEntityKind(s string) (EntityKind, error) {
	s = strings.TrimSpace(s)
	for k, l := range entityKindLabels {
		if strings.EqualFold(s, string(k)) || strings.EqualFold(s, l) {
			return k, nil
		}
	}
	return "", fmt.Errorf("invalid entity kind: %s", s)
}

// Status is the lifecycle status code stored in entity.status.
type Status string

const (
	StatusDraft     Status = "DRA"
	StatusPublished Status = "PUB"
	StatusSuspended Status = "SUS"
	StatusDeleted   Status = "DEL"
)

var statusLabels = map[Status]string{
	StatusDraft:     "Draft",
	StatusPublished: "Published",
	StatusSuspended: "Suspended",
	StatusDeleted:   "Deleted",
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for st, l := range statusLabels {
		if strings.EqualFold(s, string(st)) || strings.EqualFold(s, l) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status: %s", s)
}

// StatusValues deduplicates and orders statuses and returns their codes, the form
// bound to status predicates.
func StatusValues(statuses []Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range sets.List(sets.New(statuses...)) {
		out = append(out, string(s))
	}
	return out
}

// TransactionKind is the audit log action code.
type TransactionKind string

const (
	TransactionCreated   TransactionKind = "CRE"
	TransactionUpdated   TransactionKind = "UPD"
	TransactionDeleted   TransactionKind = "DEL"
	TransactionLinked    TransactionKind = "LNK"
	TransactionUnlinked  TransactionKind = "UNL"
	TransactionCommented TransactionKind = "COM"
)

var transactionKindLabels = map[TransactionKind]string{
	TransactionCreated:   "Created",
	TransactionUpdated:   "Updated",
	TransactionDeleted:   "Deleted",
	TransactionLinked:    "Linked",
	TransactionUnlinked:  "Unlinked",
	TransactionCommented: "Commented",
}

func (t TransactionKind) Label() string {
	if l, ok := transactionKindLabels[t]; ok {
		return l
	}
	return string(t)
}

func ParseTransactionKind(s string) (TransactionKind, error) {
	s = strings.TrimSpace(s)
	for k, l := range transactionKindLabels {
		if strings.EqualFold(s, string(k)) || strings.EqualFold(s, l) {
			return k, nil
		}
	}
	return "", fmt.Errorf("invalid transaction kind: %s", s)
}

// TransactionKindValues deduplicates and orders transaction kinds and returns their codes.
func TransactionKindValues(kinds []TransactionKind) []string {
	out := make([]string, 0, len(kinds))
	for _, k := range sets.List(sets.New(kinds...)) {
		out = append(out, string(k))
	}
	return out
}
