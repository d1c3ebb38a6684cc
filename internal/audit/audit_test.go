package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/chukul/iamaudit/internal"
	"github.com/chukul/iamaudit/internal/models"
	"github.com/chukul/iamaudit/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var account = &models.Account{Number: "123456789012"}

func testSession(profile string) *internal.Session {
	return internal.NewSessionFromConfig(profile, aws.Config{Region: "us-east-1"})
}

func someBoundary() *models.PermissionsBoundary {
	return &models.PermissionsBoundary{
		Type: "PermissionsBoundaryPolicy",
		ARN:  "arn:aws:iam::" + account.Number + ":policy/some_boundary",
	}
}

type fakeRoles struct {
	roles    []*models.Role
	err      error
	calls    int
	sessions []*internal.Session
	specs    []search.Spec
}

func (f *fakeRoles) factory(s *internal.Session) (RoleSearcher, error) {
	f.sessions = append(f.sessions, s)
	return f, nil
}

func (f *fakeRoles) Search(_ context.Context, spec search.Spec) ([]*models.Role, error) {
	f.calls++
	f.specs = append(f.specs, spec)
	if f.err != nil {
		return nil, f.err
	}
	return f.roles, nil
}

type fakeUsers struct {
	users    []*models.User
	err      error
	calls    int
	sessions []*internal.Session
}

func (f *fakeUsers) factory(s *internal.Session) (UserSearcher, error) {
	f.sessions = append(f.sessions, s)
	return f, nil
}

func (f *fakeUsers) Search(_ context.Context, _ search.Spec) ([]*models.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func TestNewAudit_Session(t *testing.T) {
	sess := testSession("temp")

	ra, err := NewRoleAudit(sess)
	require.NoError(t, err)
	assert.Same(t, sess, ra.Session())

	ua, err := NewUserAudit(sess)
	require.NoError(t, err)
	assert.Same(t, sess, ua.Session())

	next := testSession("sample")
	require.NoError(t, ra.SetSession(next))
	assert.Same(t, next, ra.Session())
	require.NoError(t, ua.SetSession(next))
	assert.Same(t, next, ua.Session())
}

func TestNewAudit_InvalidSession(t *testing.T) {
	_, err := NewRoleAudit(nil)
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = NewUserAudit(nil)
	assert.ErrorIs(t, err, ErrInvalidSession)

	sess := testSession("temp")
	ra, err := NewRoleAudit(sess)
	require.NoError(t, err)
	assert.ErrorIs(t, ra.SetSession(nil), ErrInvalidSession)
	assert.Same(t, sess, ra.Session(), "rejected set keeps the old session")

	ua, err := NewUserAudit(sess)
	require.NoError(t, err)
	assert.ErrorIs(t, ua.SetSession(nil), ErrInvalidSession)
	assert.Same(t, sess, ua.Session())
}

func TestRolesWithoutPermissionsBoundary_NoRoles(t *testing.T) {
	for name, roles := range map[string][]*models.Role{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			f := &fakeRoles{roles: roles}
			ra, err := NewRoleAudit(testSession("temp"), WithRoleSearcherFunc(f.factory))
			require.NoError(t, err)

			got, err := ra.RolesWithoutPermissionsBoundary(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestRolesWithoutPermissionsBoundary_NoneMatching(t *testing.T) {
	f := &fakeRoles{roles: []*models.Role{{
		Account:             account,
		Name:                "test_role1",
		ID:                  "ABCHYSF",
		ARN:                 "arn:aws:iam::" + account.Number + ":role/test_role1",
		Path:                "/",
		MaxSessionDuration:  3600,
		PermissionsBoundary: someBoundary(),
	}}}
	ra, err := NewRoleAudit(testSession("temp"), WithRoleSearcherFunc(f.factory))
	require.NoError(t, err)

	got, err := ra.RolesWithoutPermissionsBoundary(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRolesWithoutPermissionsBoundary_SomeMatching(t *testing.T) {
	a := &models.Role{Account: account, Name: "test_role1", ID: "ABCHYSF", Path: "/", MaxSessionDuration: 3600, PermissionsBoundary: someBoundary()}
	b := &models.Role{Account: account, Name: "test_role2", ID: "BHGSFA", Path: "/", MaxSessionDuration: 3600}
	c := &models.Role{Account: account, Name: "test_role3", ID: "HYGDSG", Path: models.ServiceLinkedRolePath, MaxSessionDuration: 3600}
	f := &fakeRoles{roles: []*models.Role{a, b, c}}

	ra, err := NewRoleAudit(testSession("temp"), WithRoleSearcherFunc(f.factory))
	require.NoError(t, err)

	got, err := ra.RolesWithoutPermissionsBoundary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*models.Role{b}, got)
	for _, r := range got {
		assert.Nil(t, r.PermissionsBoundary)
		assert.NotEqual(t, models.ServiceLinkedRolePath, r.Path)
	}
	assert.Equal(t, []search.Spec{{}}, f.specs, "searches with an empty spec")
}

func TestRolesWithoutPermissionsBoundary_KeepsOrder(t *testing.T) {
	var roles []*models.Role
	for _, n := range []string{"z", "a", "m", "b"} {
		roles = append(roles, &models.Role{Name: n, Path: "/app/"})
	}
	f := &fakeRoles{roles: roles}
	ra, err := NewRoleAudit(testSession("temp"), WithRoleSearcherFunc(f.factory))
	require.NoError(t, err)

	got, err := ra.RolesWithoutPermissionsBoundary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, roles, got)
}

func TestRolesWithoutPermissionsBoundary_Idempotent(t *testing.T) {
	f := &fakeRoles{roles: []*models.Role{
		{Name: "a", Path: "/", PermissionsBoundary: someBoundary()},
		{Name: "b", Path: "/"},
	}}
	ra, err := NewRoleAudit(testSession("temp"), WithRoleSearcherFunc(f.factory))
	require.NoError(t, err)

	first, err := ra.RolesWithoutPermissionsBoundary(context.Background())
	require.NoError(t, err)
	second, err := ra.RolesWithoutPermissionsBoundary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, f.calls, "each call re-queries the searcher")
}

func TestRolesWithoutPermissionsBoundary_UsesCurrentSession(t *testing.T) {
	f := &fakeRoles{}
	first := testSession("temp")
	ra, err := NewRoleAudit(first, WithRoleSearcherFunc(f.factory))
	require.NoError(t, err)

	_, err = ra.RolesWithoutPermissionsBoundary(context.Background())
	require.NoError(t, err)

	second := testSession("sample")
	require.NoError(t, ra.SetSession(second))
	_, err = ra.RolesWithoutPermissionsBoundary(context.Background())
	require.NoError(t, err)

	require.Len(t, f.sessions, 2)
	assert.Same(t, first, f.sessions[0])
	assert.Same(t, second, f.sessions[1])
}

func TestRolesWithoutPermissionsBoundary_SearchError(t *testing.T) {
	boom := errors.New("ExpiredToken: the security token included in the request is expired")
	f := &fakeRoles{err: boom}
	ra, err := NewRoleAudit(testSession("temp"), WithRoleSearcherFunc(f.factory))
	require.NoError(t, err)

	got, err := ra.RolesWithoutPermissionsBoundary(context.Background())
	assert.Nil(t, got)
	assert.Equal(t, boom, err, "errors pass through unwrapped")
	assert.Equal(t, 1, f.calls, "no retries")
}

func TestRolesWithoutPermissionsBoundary_FactoryError(t *testing.T) {
	boom := errors.New("no client")
	ra, err := NewRoleAudit(testSession("temp"), WithRoleSearcherFunc(func(*internal.Session) (RoleSearcher, error) {
		return nil, boom
	}))
	require.NoError(t, err)

	_, err = ra.RolesWithoutPermissionsBoundary(context.Background())
	assert.Equal(t, boom, err)
}

func TestUsersWithoutPermissionsBoundary_NoUsers(t *testing.T) {
	f := &fakeUsers{}
	ua, err := NewUserAudit(testSession("temp"), WithUserSearcherFunc(f.factory))
	require.NoError(t, err)

	got, err := ua.UsersWithoutPermissionsBoundary(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUsersWithoutPermissionsBoundary_NoneMatching(t *testing.T) {
	f := &fakeUsers{users: []*models.User{{
		Account:             account,
		Name:                "test_user",
		ID:                  "ABCDEFGH",
		ARN:                 "arn:aws:iam::" + account.Number + ":user/test_user",
		PermissionsBoundary: someBoundary(),
	}}}
	ua, err := NewUserAudit(testSession("temp"), WithUserSearcherFunc(f.factory))
	require.NoError(t, err)

	got, err := ua.UsersWithoutPermissionsBoundary(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUsersWithoutPermissionsBoundary_SomeMatching(t *testing.T) {
	a := &models.User{Account: account, Name: "test_user1", ID: "ABCDEFGH", PermissionsBoundary: someBoundary()}
	b := &models.User{Account: account, Name: "test_user2", ID: "BCDGHEY"}
	// no path exclusion for users
	c := &models.User{Account: account, Name: "test_user3", ID: "CDGHFYU", Path: models.ServiceLinkedRolePath}
	f := &fakeUsers{users: []*models.User{a, b, c}}

	ua, err := NewUserAudit(testSession("temp"), WithUserSearcherFunc(f.factory))
	require.NoError(t, err)

	got, err := ua.UsersWithoutPermissionsBoundary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*models.User{b, c}, got)
	for _, u := range got {
		assert.Nil(t, u.PermissionsBoundary)
	}

	again, err := ua.UsersWithoutPermissionsBoundary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, 2, f.calls)
}

func TestUsersWithoutPermissionsBoundary_SearchError(t *testing.T) {
	boom := errors.New("AccessDenied")
	f := &fakeUsers{err: boom}
	ua, err := NewUserAudit(testSession("temp"), WithUserSearcherFunc(f.factory))
	require.NoError(t, err)

	got, err := ua.UsersWithoutPermissionsBoundary(context.Background())
	assert.Nil(t, got)
	assert.Equal(t, boom, err)
}

func TestDefaultSearchers(t *testing.T) {
	opts, err := getOpts(WithSearchOptions(search.WithConcurrency(2)))
	require.NoError(t, err)

	rs, err := opts.withRoleSearcherFunc(testSession("temp"))
	require.NoError(t, err)
	assert.IsType(t, &search.Roles{}, rs)

	us, err := opts.withUserSearcherFunc(testSession("temp"))
	require.NoError(t, err)
	assert.IsType(t, &search.Users{}, us)

	opts, err = getOpts(WithSearchOptions(search.WithConcurrency(0)))
	require.NoError(t, err)
	_, err = opts.withRoleSearcherFunc(testSession("temp"))
	assert.Error(t, err)
}
