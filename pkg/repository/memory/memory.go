package memory

import (
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	client     *clientRepository
	document   *documentRepository
	riskConfig *riskConfigRepository
	user       *userRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		client:     newClientRepository(),
		document:   newDocumentRepository(),
		riskConfig: newRiskConfigRepository(),
		user:       newUserRepository(),
	}
}

func (m *Memory) Client() interfaces.ClientRepository {
	return m.client
}

func (m *Memory) Document() interfaces.DocumentRepository {
	return m.document
}

func (m *Memory) RiskConfig() interfaces.RiskConfigRepository {
	return m.riskConfig
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Close() error {
	return nil
}
