package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Persons() PersonRepository
	Gifts() GiftRepository
	Redemptions() RedemptionRepository
	Ledger() LedgerRepository
}
