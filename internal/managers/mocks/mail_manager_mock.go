package mocks

import "github.com/stretchr/testify/mock"

type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendPasswordResetMail(email, username, resetLink string) error {
	args := m.Called(email, username, resetLink)
	return args.Error(0)
}
