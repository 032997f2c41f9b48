package models

// TripCompanionLink pairs a TripCompanion junction row with the
// CompanionRecord it points at, as repositories return it for permission
// resolution and loader assembly.
type TripCompanionLink struct {
	TripCompanion
	Companion CompanionRecord `json:"companion"`
}

// ItemCompanionLink pairs an ItemCompanion junction row with the
// CompanionRecord it points at.
type ItemCompanionLink struct {
	ItemCompanion
	Companion CompanionRecord `json:"companion"`
}

// InboundCompanion is a companion record someone else created about the
// viewer, together with the creator's account data. The creator is the
// counterpart of the relationship as seen from the viewer's side.
type InboundCompanion struct {
	Record  CompanionRecord `json:"record"`
	Creator User            `json:"creator"`
}
