package screening

// Program name constants for the sanctions-list/program taxonomy used by
// SanctionsInfo.Program (spec §4.6's compareSanctionsPrograms operates on
// these as opaque strings; the constants just give parsers and tests a
// canonical, typo-proof set of names to populate them with).
const (
	ProgramOFACSDN        = "OFAC_SDN"
	ProgramOFACNonSDN     = "OFAC_NON_SDN"
	ProgramUSCSL          = "US_CSL"
	ProgramEUAssetFreeze  = "EU_ASSET_FREEZE"
	ProgramEUArmsEmbargo  = "EU_ARMS_EMBARGO"
	ProgramUKAssetFreeze  = "UK_ASSET_FREEZE"
	ProgramUKTravelBan    = "UK_TRAVEL_BAN"
	ProgramUNSecurityConsolidated = "UN_SC_CONSOLIDATED"
)
