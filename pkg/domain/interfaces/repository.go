package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Client() ClientRepository
	Document() DocumentRepository
	RiskConfig() RiskConfigRepository
	User() UserRepository

	Close() error
}
