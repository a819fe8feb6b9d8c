package orchestrators

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/bcrypt"

	"teamvideos/internal/domain/account"
	"teamvideos/internal/domain/activity"
	"teamvideos/internal/domain/project"
	"teamvideos/internal/domain/team"
	"teamvideos/internal/domain/teammember"
	"teamvideos/internal/domain/video"
	"teamvideos/internal/domain/workflow"
)

func init() {
	account.HashCost = bcrypt.MinCost
}

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// sequentialIDs returns a generator of "id-1", "id-2", ...
func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return "id-" + strconv.FormatInt(n.Add(1), 10)
	}
}

// mockAccountStore implements the account store interfaces of create, login and change password.
type mockAccountStore struct {
	accounts map[string]account.Account // by username
	saveErr  error
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]account.Account)}
}

func (m *mockAccountStore) GetByUsername(_ context.Context, username string) (account.Account, error) {
	a, ok := m.accounts[username]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.accounts[a.Username] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

// mockTeamStore implements TeamStoreForOrchestrator.
type mockTeamStore struct {
	teams map[string]team.Team // by ID
	saves int
}

func newMockTeamStore(teams ...team.Team) *mockTeamStore {
	m := &mockTeamStore{teams: make(map[string]team.Team)}
	for _, t := range teams {
		m.teams[t.ID] = t
	}
	return m
}

func (m *mockTeamStore) GetByID(_ context.Context, id string) (team.Team, error) {
	t, ok := m.teams[id]
	if !ok {
		return team.Team{}, team.ErrNotFound
	}
	return t, nil
}

func (m *mockTeamStore) GetBySlug(_ context.Context, slug string) (team.Team, error) {
	for _, t := range m.teams {
		if t.Slug == slug {
			return t, nil
		}
	}
	return team.Team{}, team.ErrNotFound
}

func (m *mockTeamStore) Save(_ context.Context, t team.Team) error {
	m.saves++
	m.teams[t.ID] = t
	return nil
}

// mockMemberStore implements MemberStoreForOrchestrator.
type mockMemberStore struct {
	members map[string]teammember.Member // by team:account
}

func newMockMemberStore(members ...teammember.Member) *mockMemberStore {
	m := &mockMemberStore{members: make(map[string]teammember.Member)}
	for _, mem := range members {
		m.members[mem.TeamID+":"+mem.AccountID] = mem
	}
	return m
}

func (m *mockMemberStore) Get(_ context.Context, teamID, accountID string) (teammember.Member, error) {
	mem, ok := m.members[teamID+":"+accountID]
	if !ok {
		return teammember.Member{}, teammember.ErrNotFound
	}
	return mem, nil
}

func (m *mockMemberStore) Save(_ context.Context, mem teammember.Member) error {
	m.members[mem.TeamID+":"+mem.AccountID] = mem
	return nil
}

// mockProjectStore implements ProjectStoreForOrchestrator.
type mockProjectStore struct {
	projects map[string]project.Project // by ID
}

func newMockProjectStore(projects ...project.Project) *mockProjectStore {
	m := &mockProjectStore{projects: make(map[string]project.Project)}
	for _, p := range projects {
		m.projects[p.ID] = p
	}
	return m
}

func (m *mockProjectStore) GetByID(_ context.Context, id string) (project.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return project.Project{}, project.ErrNotFound
	}
	return p, nil
}

func (m *mockProjectStore) GetBySlug(_ context.Context, teamID, slug string) (project.Project, error) {
	for _, p := range m.projects {
		if p.TeamID == teamID && p.Slug == slug {
			return p, nil
		}
	}
	return project.Project{}, project.ErrNotFound
}

func (m *mockProjectStore) Save(_ context.Context, p project.Project) error {
	m.projects[p.ID] = p
	return nil
}

// mockVideoStore implements VideoStoreForOrchestrator.
type mockVideoStore struct {
	videos map[string]video.Video
}

func newMockVideoStore(videos ...video.Video) *mockVideoStore {
	m := &mockVideoStore{videos: make(map[string]video.Video)}
	for _, v := range videos {
		m.videos[v.ID] = v
	}
	return m
}

func (m *mockVideoStore) GetByID(_ context.Context, id string) (video.Video, error) {
	v, ok := m.videos[id]
	if !ok {
		return video.Video{}, video.ErrNotFound
	}
	return v, nil
}

func (m *mockVideoStore) Save(_ context.Context, v video.Video) error {
	m.videos[v.ID] = v
	return nil
}

// mockWorkflowStore implements WorkflowStoreForOrchestrator.
type mockWorkflowStore struct {
	workflows map[string]workflow.Workflow
}

func newMockWorkflowStore() *mockWorkflowStore {
	return &mockWorkflowStore{workflows: make(map[string]workflow.Workflow)}
}

func (m *mockWorkflowStore) Save(_ context.Context, w workflow.Workflow) error {
	m.workflows[w.TeamID] = w
	return nil
}

// mockIndex implements IndexRefresher.
type mockIndex struct {
	n     int
	err   error
	calls int
}

func (m *mockIndex) Refresh(_ context.Context) (int, error) {
	m.calls++
	return m.n, m.err
}

// mockActivity implements ActivityRecorder.
type mockActivity struct {
	events []activity.Event
	err    error
}

func (m *mockActivity) Save(_ context.Context, e activity.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

var errBoom = errors.New("boom")
