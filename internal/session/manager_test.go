package session

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/merictopal/FoodShareHungary-MericTopal/internal/api"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/store"
)

type stubGateway struct {
	loginResp    *api.LoginResponse
	loginErr     error
	registerResp *api.StatusResponse
	registerErr  error
	token        string
}

func (g *stubGateway) Login(_ context.Context, _, _ string) (*api.LoginResponse, error) {
	return g.loginResp, g.loginErr
}

func (g *stubGateway) Register(_ context.Context, _ api.RegisterRequest) (*api.StatusResponse, error) {
	return g.registerResp, g.registerErr
}

func (g *stubGateway) SetToken(token string) { g.token = token }

type stubStorage struct {
	snapshot store.Snapshot

	savedUser  *model.User
	savedToken string
	savedLang  string
	cleared    bool

	saveErr  error
	clearErr error
}

func (s *stubStorage) Load(_ context.Context) store.Snapshot { return s.snapshot }

func (s *stubStorage) SaveSession(_ context.Context, u *model.User) error {
	s.savedUser = u
	return s.saveErr
}

func (s *stubStorage) SaveToken(_ context.Context, token string) error {
	s.savedToken = token
	return s.saveErr
}

func (s *stubStorage) SetLanguage(_ context.Context, lang string) error {
	s.savedLang = lang
	return s.saveErr
}

func (s *stubStorage) Clear(_ context.Context) error {
	s.cleared = true
	return s.clearErr
}

type stubTranslator struct {
	lang string
}

func (t *stubTranslator) T(key string, _ map[string]any) string { return "tr:" + key }
func (t *stubTranslator) SetLanguage(lang string)               { t.lang = lang }
func (t *stubTranslator) Language() string                      { return t.lang }

func newTestManager(gw *stubGateway, st *stubStorage) (*Manager, *stubTranslator) {
	tr := &stubTranslator{lang: "tr"}
	return NewManager(st, gw, tr, zap.NewNop()), tr
}

func TestInitialize(t *testing.T) {
	user := &model.User{ID: 1, Name: "Meric", Role: model.RoleStudent}
	gw := &stubGateway{}
	st := &stubStorage{snapshot: store.Snapshot{Language: "hu", User: user, Token: "stored-token"}}
	m, tr := newTestManager(gw, st)

	if m.State() != StateUninitialized {
		t.Fatalf("State() = %v before Initialize, want StateUninitialized", m.State())
	}

	m.Initialize(context.Background())

	if m.State() != StateReady {
		t.Errorf("State() = %v, want StateReady", m.State())
	}
	if m.User() != user {
		t.Errorf("User() = %+v, want restored session", m.User())
	}
	if m.Token() != "stored-token" {
		t.Errorf("Token() = %q, want %q", m.Token(), "stored-token")
	}
	if gw.token != "stored-token" {
		t.Errorf("gateway token = %q, want %q", gw.token, "stored-token")
	}
	if tr.lang != "hu" {
		t.Errorf("translator language = %q, want %q", tr.lang, "hu")
	}
}

func TestInitializeIdempotent(t *testing.T) {
	gw := &stubGateway{}
	st := &stubStorage{snapshot: store.Snapshot{Language: "tr"}}
	m, _ := newTestManager(gw, st)

	m.Initialize(context.Background())
	first := m.User()

	st.snapshot.User = &model.User{ID: 2}
	m.Initialize(context.Background())

	if m.User() != first {
		t.Error("second Initialize() reloaded state")
	}
}

func TestLoginSuccessPersists(t *testing.T) {
	user := &model.User{ID: 3, Name: "Meric", Role: model.RoleStudent}
	gw := &stubGateway{loginResp: &api.LoginResponse{Success: true, User: user, Token: "fresh-token"}}
	st := &stubStorage{}
	m, _ := newTestManager(gw, st)

	if err := m.Login(context.Background(), "meric@example.com", "secret"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if m.User() != user {
		t.Errorf("User() = %+v, want %+v", m.User(), user)
	}
	if m.Token() != "fresh-token" {
		t.Errorf("Token() = %q, want %q", m.Token(), "fresh-token")
	}
	if st.savedUser != user {
		t.Error("session was not persisted")
	}
	if st.savedToken != "fresh-token" {
		t.Errorf("persisted token = %q, want %q", st.savedToken, "fresh-token")
	}
	if gw.token != "fresh-token" {
		t.Errorf("gateway token = %q, want %q", gw.token, "fresh-token")
	}
	if m.Busy() {
		t.Error("Busy() = true after Login returned")
	}
}

func TestLoginFailureKeepsSession(t *testing.T) {
	existing := &model.User{ID: 1, Role: model.RoleStudent}
	gw := &stubGateway{loginErr: &api.APIError{StatusCode: 401, Message: "Invalid email or password."}}
	st := &stubStorage{snapshot: store.Snapshot{User: existing, Token: "old-token"}}
	m, _ := newTestManager(gw, st)
	m.Initialize(context.Background())

	err := m.Login(context.Background(), "meric@example.com", "wrong")
	if err == nil {
		t.Fatal("Login() error = nil, want error")
	}

	var sessErr *Error
	if !errors.As(err, &sessErr) {
		t.Fatalf("Login() error = %v, want *Error", err)
	}
	if sessErr.Message != "Invalid email or password." {
		t.Errorf("Message = %q, want backend message", sessErr.Message)
	}

	if m.User() != existing {
		t.Error("failed login changed the session")
	}
	if st.savedUser != nil {
		t.Error("failed login persisted a session")
	}
}

func TestLoginNetworkErrorUsesGenericMessage(t *testing.T) {
	gw := &stubGateway{loginErr: errors.New("connection refused")}
	m, _ := newTestManager(gw, &stubStorage{})

	err := m.Login(context.Background(), "meric@example.com", "secret")

	var sessErr *Error
	if !errors.As(err, &sessErr) {
		t.Fatalf("Login() error = %v, want *Error", err)
	}
	if sessErr.Message != "tr:error" {
		t.Errorf("Message = %q, want generic translated message", sessErr.Message)
	}
	if sessErr.Unwrap() == nil {
		t.Error("Unwrap() = nil, want original error")
	}
}

func TestLoginStorageErrorNotSurfaced(t *testing.T) {
	user := &model.User{ID: 3, Role: model.RoleStudent}
	gw := &stubGateway{loginResp: &api.LoginResponse{Success: true, User: user, Token: "token"}}
	st := &stubStorage{saveErr: errors.New("disk full")}
	m, _ := newTestManager(gw, st)

	if err := m.Login(context.Background(), "meric@example.com", "secret"); err != nil {
		t.Errorf("Login() error = %v, want nil despite storage failure", err)
	}
	if m.User() != user {
		t.Error("session not updated despite storage failure")
	}
}

func TestRegisterReturnsMessage(t *testing.T) {
	gw := &stubGateway{registerResp: &api.StatusResponse{Success: true, Message: "Registration successful! You can now log in."}}
	m, _ := newTestManager(gw, &stubStorage{})

	msg, err := m.Register(context.Background(), api.RegisterRequest{
		Name:  "Meric",
		Email: "meric@example.com",
		Role:  model.RoleStudent,
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if msg != "Registration successful! You can now log in." {
		t.Errorf("message = %q", msg)
	}
	if m.User() != nil {
		t.Error("Register() created a session, want none")
	}
}

func TestRegisterEmailTaken(t *testing.T) {
	gw := &stubGateway{registerErr: &api.APIError{StatusCode: 409, Message: "This email address is already in use."}}
	m, _ := newTestManager(gw, &stubStorage{})

	_, err := m.Register(context.Background(), api.RegisterRequest{Email: "dup@example.com"})

	var sessErr *Error
	if !errors.As(err, &sessErr) {
		t.Fatalf("Register() error = %v, want *Error", err)
	}
	if sessErr.Message != "This email address is already in use." {
		t.Errorf("Message = %q", sessErr.Message)
	}
}

func TestLogout(t *testing.T) {
	user := &model.User{ID: 1, Role: model.RoleStudent}
	gw := &stubGateway{}
	st := &stubStorage{snapshot: store.Snapshot{Language: "hu", User: user, Token: "token"}}
	m, tr := newTestManager(gw, st)
	m.Initialize(context.Background())

	m.Logout(context.Background())

	if m.User() != nil {
		t.Error("User() != nil after Logout")
	}
	if m.Token() != "" {
		t.Errorf("Token() = %q after Logout", m.Token())
	}
	if gw.token != "" {
		t.Errorf("gateway token = %q after Logout", gw.token)
	}
	if !st.cleared {
		t.Error("Logout() did not clear storage")
	}
	if tr.lang != "hu" {
		t.Errorf("language = %q after Logout, want preserved %q", tr.lang, "hu")
	}
}

func TestLogoutStorageErrorIgnored(t *testing.T) {
	gw := &stubGateway{}
	st := &stubStorage{clearErr: errors.New("locked")}
	m, _ := newTestManager(gw, st)

	m.Logout(context.Background())

	if m.User() != nil || m.Token() != "" {
		t.Error("in-memory session survived Logout with storage failure")
	}
}

func TestUpdateUserPersists(t *testing.T) {
	gw := &stubGateway{}
	st := &stubStorage{}
	m, _ := newTestManager(gw, st)

	updated := &model.User{ID: 1, Name: "New Name", Role: model.RoleStudent}
	m.UpdateUser(context.Background(), updated)

	if m.User() != updated {
		t.Error("UpdateUser() did not replace session")
	}
	if st.savedUser != updated {
		t.Error("UpdateUser() did not persist session")
	}
}

func TestChangeLanguage(t *testing.T) {
	gw := &stubGateway{}
	st := &stubStorage{}
	m, tr := newTestManager(gw, st)

	m.ChangeLanguage(context.Background(), "en")

	if tr.lang != "en" {
		t.Errorf("translator language = %q, want %q", tr.lang, "en")
	}
	if st.savedLang != "en" {
		t.Errorf("persisted language = %q, want %q", st.savedLang, "en")
	}
}
