package commands_test

import (
	"context"
	"testing"

	"roadside/internal/core/application/usecases/commands"
	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/core/domain/model/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProviderUoWFactory is a mock implementation of ProviderUoWFactory.
type MockProviderUoWFactory struct {
	mock.Mock
}

func (m *MockProviderUoWFactory) Create() commands.ProviderUoW {
	args := m.Called()
	return args.Get(0).(commands.ProviderUoW)
}

func Test_RegisterProviderCommandHandler_Success(t *testing.T) {
	ctx := context.Background()

	providerRepo := new(MockProviderRepository)
	uow := new(MockUoW)
	factory := new(MockProviderUoWFactory)

	factory.On("Create").Return(uow).Once()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ProviderRepository").Return(providerRepo).Once(),
		providerRepo.On("Add", ctx, mock.AnythingOfType("*provider.Provider")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewRegisterProviderCommand(
		kernel.NewUUID(), "Bek Towing", kernel.RoleTowTruck,
		provider.Capabilities{TowTruckTypes: []string{"flatbed"}})
	require.NoError(t, err)

	handler := commands.NewRegisterProviderCommandHandler(factory)
	require.NoError(t, handler.Handle(ctx, cmd))

	added := providerRepo.Calls[0].Arguments[1].(*provider.Provider)
	assert.Equal(t, "Bek Towing", added.Name())
	assert.Equal(t, kernel.RoleTowTruck, added.Role())
	assert.Equal(t, provider.VerificationPending, added.Verification())
	assert.False(t, added.IsOnline())

	providerRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func Test_RegisterProviderCommandHandler_UnconstructedCommand_Fails(t *testing.T) {
	handler := commands.NewRegisterProviderCommandHandler(new(MockProviderUoWFactory))

	err := handler.Handle(context.Background(), commands.RegisterProviderCommand{})
	assert.ErrorIs(t, err, commands.ErrRegisterProviderCommandIsNotConstructed)
}
