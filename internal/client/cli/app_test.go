package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/staffdir/internal/client/client"
	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/dmitrijs2005/staffdir/internal/kvstore"
	"github.com/dmitrijs2005/staffdir/internal/logging"
	"github.com/dmitrijs2005/staffdir/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDirectory returns canned results and records calls.
type fakeDirectory struct {
	list      []users.User
	user      *users.User
	err       error
	loggedOut bool
	lastNew   users.NewUser
	lastPatch users.Patch
	lastID    string
}

func (f *fakeDirectory) List(context.Context) ([]users.User, error) { return f.list, f.err }
func (f *fakeDirectory) Authenticate(context.Context, string, string) (*users.User, error) {
	return f.user, f.err
}
func (f *fakeDirectory) Enroll(_ context.Context, n users.NewUser) (*users.User, error) {
	f.lastNew = n
	return f.user, f.err
}
func (f *fakeDirectory) Update(_ context.Context, id string, p users.Patch) (*users.User, error) {
	f.lastID, f.lastPatch = id, p
	return f.user, f.err
}
func (f *fakeDirectory) Remove(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}
func (f *fakeDirectory) Logout()      { f.loggedOut = true }
func (f *fakeDirectory) Close() error { return nil }

func testApp(t *testing.T, dir client.Directory, input ...string) (*App, *bytes.Buffer) {
	t.Helper()
	stubTerminal(t, false, nil, errors.New("no tty"))
	var out bytes.Buffer
	a := newApp(nil, dir, logging.Discard(), strings.NewReader(strings.Join(input, "\n")+"\n"), &out)
	return a, &out
}

func localDirectory(t *testing.T) *client.LocalDirectory {
	t.Helper()
	d, err := client.OpenLocal(context.Background(), kvstore.Config{Backend: kvstore.BackendMemory}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		a, out := testApp(t, localDirectory(t), "admin", "admin")
		require.NoError(t, a.Login(ctx))
		assert.True(t, a.isLoggedIn())
		assert.True(t, a.canManage())
		assert.Contains(t, out.String(), "Welcome, Admin User!")
	})

	t.Run("blank fields", func(t *testing.T) {
		a, out := testApp(t, localDirectory(t), "  ", "admin")
		require.ErrorIs(t, a.Login(ctx), common.ErrorValidation)
		assert.Contains(t, out.String(), "Login and PIN are required.")
		assert.False(t, a.isLoggedIn())
	})

	t.Run("wrong PIN", func(t *testing.T) {
		a, out := testApp(t, localDirectory(t), "admin", "nimda")
		require.ErrorIs(t, a.Login(ctx), common.ErrorUnauthorized)
		assert.Contains(t, out.String(), "Invalid login or PIN.")
	})

	t.Run("login is case sensitive", func(t *testing.T) {
		a, out := testApp(t, localDirectory(t), "ADMIN", "admin")
		require.Error(t, a.Login(ctx))
		assert.Contains(t, out.String(), "Invalid login or PIN.")
	})

	t.Run("credentials are not trimmed", func(t *testing.T) {
		d := localDirectory(t)
		require.NoError(t, d.Create(ctx, users.User{ID: "s1", Name: "Spacey", Login: "SPCE10", PIN: " 1234", Role: users.RoleCook}))

		a, out := testApp(t, d, "SPCE10", " 1234")
		require.NoError(t, a.Login(ctx))
		assert.Contains(t, out.String(), "Welcome, Spacey!")

		a, out = testApp(t, d, "admin ", "admin")
		require.ErrorIs(t, a.Login(ctx), common.ErrorUnauthorized)
		assert.Contains(t, out.String(), "Invalid login or PIN.")
	})

	t.Run("storage fault", func(t *testing.T) {
		a, out := testApp(t, &fakeDirectory{err: common.ErrStorageFault}, "admin", "admin")
		require.Error(t, a.Login(ctx))
		assert.Contains(t, out.String(), "An error occurred while trying to log in.")
	})

	t.Run("rate limited", func(t *testing.T) {
		a, out := testApp(t, &fakeDirectory{err: client.ErrRateLimited}, "admin", "admin")
		require.Error(t, a.Login(ctx))
		assert.Contains(t, out.String(), "Too many login attempts")
	})
}

func TestAddListEditRemove_Local(t *testing.T) {
	ctx := context.Background()
	dir := localDirectory(t)

	a, out := testApp(t, dir, "Joana Lima", "2")
	a.user = &users.User{ID: users.DefaultAdminID, Role: users.RoleAdmin}

	require.NoError(t, a.Add(ctx))
	assert.Contains(t, out.String(), "Employee added.")

	list, err := dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	joana := list[1]
	assert.Equal(t, "Joana Lima", joana.Name)
	assert.Equal(t, users.Roles[1], joana.Role)
	assert.Contains(t, out.String(), joana.Login)
	assert.Contains(t, out.String(), joana.PIN)

	out.Reset()
	require.NoError(t, a.List(ctx))
	assert.Contains(t, out.String(), "Joana Lima")
	assert.NotContains(t, out.String(), joana.PIN, "list never shows PINs")

	a.reader.Reset(strings.NewReader(joana.ID + "\nJoana L.\n\n\ncaixa\n"))
	out.Reset()
	require.NoError(t, a.Edit(ctx))
	assert.Contains(t, out.String(), "Employee updated.")

	got, err := dir.Get(ctx, joana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Joana L.", got.Name)
	assert.Equal(t, users.RoleCashier, got.Role)
	assert.Equal(t, joana.Login, got.Login)

	a.reader.Reset(strings.NewReader(joana.ID + "\nn\n"))
	out.Reset()
	require.NoError(t, a.Remove(ctx))
	assert.Contains(t, out.String(), "Cancelled.")

	a.reader.Reset(strings.NewReader(joana.ID + "\ny\n"))
	out.Reset()
	require.NoError(t, a.Remove(ctx))
	assert.Contains(t, out.String(), "Employee removed.")

	a.reader.Reset(strings.NewReader(joana.ID + "\ny\n"))
	out.Reset()
	require.ErrorIs(t, a.Remove(ctx), common.ErrorNotFound)
	assert.Contains(t, out.String(), "Employee not found.")
}

func TestAdd_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("enroll fails", func(t *testing.T) {
		a, out := testApp(t, &fakeDirectory{err: common.ErrStorageFault}, "Rui", "cozinheiro")
		require.Error(t, a.Add(ctx))
		assert.Contains(t, out.String(), "Could not add employee.")
	})

	t.Run("role required", func(t *testing.T) {
		f := &fakeDirectory{}
		a, out := testApp(t, f, "Rui", "")
		require.ErrorIs(t, a.Add(ctx), errInvalidRole)
		assert.Contains(t, out.String(), "Role is required.")
		assert.Empty(t, f.lastNew.Name, "directory not called")
	})

	t.Run("role out of range", func(t *testing.T) {
		a, out := testApp(t, &fakeDirectory{}, "Rui", "99")
		require.ErrorIs(t, a.Add(ctx), errInvalidRole)
		assert.Contains(t, out.String(), "Unknown role number.")
	})

	t.Run("free-form role", func(t *testing.T) {
		f := &fakeDirectory{user: &users.User{Login: "ABCD10", PIN: "123456"}}
		a, _ := testApp(t, f, "Rui", "sommelier")
		require.NoError(t, a.Add(ctx))
		assert.Equal(t, "sommelier", f.lastNew.Role)
	})

	t.Run("admin tier refused", func(t *testing.T) {
		a, out := testApp(t, &fakeDirectory{err: common.ErrForbidden}, "Rui", "ADMIN")
		require.ErrorIs(t, a.Add(ctx), common.ErrForbidden)
		assert.Contains(t, out.String(), "Only ADMIN can manage administrators.")
	})

	t.Run("session expired", func(t *testing.T) {
		f := &fakeDirectory{err: common.ErrTokenExpired}
		a, out := testApp(t, f, "Rui", "1")
		a.user = &users.User{Role: users.RoleManager}
		require.Error(t, a.Add(ctx))
		assert.Contains(t, out.String(), "Session expired")
		assert.False(t, a.isLoggedIn())
		assert.True(t, f.loggedOut)
	})
}

func TestEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing to change", func(t *testing.T) {
		f := &fakeDirectory{}
		a, out := testApp(t, f, "id-1", "", "", "", "")
		require.NoError(t, a.Edit(ctx))
		assert.Contains(t, out.String(), "Nothing to change.")
		assert.Empty(t, f.lastID)
	})

	t.Run("login taken", func(t *testing.T) {
		f := &fakeDirectory{err: common.ErrorConflict}
		a, out := testApp(t, f, "id-1", "", "admin", "", "")
		require.ErrorIs(t, a.Edit(ctx), common.ErrorConflict)
		assert.Contains(t, out.String(), "That login is already taken.")
		require.NotNil(t, f.lastPatch.Login)
		assert.Equal(t, "admin", *f.lastPatch.Login)
		assert.Nil(t, f.lastPatch.Name)
	})

	t.Run("editing self refreshes session user", func(t *testing.T) {
		updated := &users.User{ID: "me", Name: "Me", Role: users.RoleAttendant}
		f := &fakeDirectory{user: updated}
		a, _ := testApp(t, f, "me", "", "", "", "atendente")
		a.user = &users.User{ID: "me", Role: users.RoleManager}
		require.NoError(t, a.Edit(ctx))
		assert.False(t, a.canManage())
	})
}

func TestWhoAmIAndLogout(t *testing.T) {
	ctx := context.Background()
	f := &fakeDirectory{}
	a, out := testApp(t, f)

	require.NoError(t, a.WhoAmI(ctx))
	assert.Contains(t, out.String(), "Not logged in.")

	a.user = &users.User{Name: "Ana", Login: "ANAA11", Role: users.RoleCook}
	assert.Equal(t, "(ANAA11 cozinheiro)", a.getStatus())
	require.NoError(t, a.WhoAmI(ctx))
	assert.Contains(t, out.String(), "Ana (ANAA11, cozinheiro)")

	require.NoError(t, a.Logout(ctx))
	assert.True(t, f.loggedOut)
	assert.False(t, a.isLoggedIn())
	assert.Empty(t, a.getStatus())
}

func TestList_Empty(t *testing.T) {
	a, out := testApp(t, &fakeDirectory{})
	require.NoError(t, a.List(context.Background()))
	assert.Contains(t, out.String(), "No employees.")
}

func TestRoot_LoginThenExit(t *testing.T) {
	captureOutput(t)
	a, out := testApp(t, localDirectory(t), "admin", "admin", "exit")

	a.Root(context.Background())

	assert.Contains(t, out.String(), "Welcome, Admin User!")
}
