package ports_test

import (
	"testing"

	"github.com/JotaC95/HotelApp/internal/adapters/authroles"
	"github.com/JotaC95/HotelApp/internal/adapters/credstore"
	"github.com/JotaC95/HotelApp/internal/adapters/identity"
	redisadapter "github.com/JotaC95/HotelApp/internal/adapters/redis"
	"github.com/JotaC95/HotelApp/internal/mocks"
	mocksauth "github.com/JotaC95/HotelApp/internal/mocks/auth"
	"github.com/JotaC95/HotelApp/internal/ports"
)

// This test only verifies that adapters and doubles conform to the ports at compile time.
func TestImplementationsSatisfyPorts(t *testing.T) {
	t.Helper()

	var _ ports.CredentialStore = (*credstore.FileStore)(nil)
	var _ ports.CredentialStore = (*redisadapter.CredentialStore)(nil)
	var _ ports.CredentialStore = (*mocksauth.MemoryCredentialStore)(nil)
	var _ ports.CredentialStore = (*mocks.MockCredentialStore)(nil)
	var _ ports.IdentityProvider = (*identity.Provider)(nil)
	var _ ports.IdentityProvider = (*mocksauth.StaticIdentityProvider)(nil)
	var _ ports.RoleMapper = authroles.PrecedenceRoleMapper{}
}
