package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	authdomain "github.com/jordanschwab/petwebsite/internal/auth/domain"
	"github.com/jordanschwab/petwebsite/internal/auth/google"
	"github.com/jordanschwab/petwebsite/internal/auth/token"

	"go.uber.org/zap"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*authdomain.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*authdomain.User{}}
}

func (r *fakeUserRepo) Create(user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = "user-" + string(rune('0'+r.seq))
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByGoogleID(googleID string) (*authdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// fakeLedger mirrors the transactional semantics of the real repository:
// Rotate succeeds for exactly one caller per record, and a failed write
// leaves the old record untouched.
type fakeLedger struct {
	mu      sync.Mutex
	records map[string]*authdomain.RefreshToken
	seq     int
	saveErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: map[string]*authdomain.RefreshToken{}}
}

func (l *fakeLedger) Save(tok *authdomain.RefreshToken) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	tok.ID = "rt-" + string(rune('0'+l.seq))
	tok.CreatedAt = time.Now()
	copied := *tok
	l.records[tok.ID] = &copied
	return nil
}

func (l *fakeLedger) FindByToken(token string) (*authdomain.RefreshToken, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rec := range l.records {
		if rec.Token == token {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, nil
}

func (l *fakeLedger) Rotate(oldID string, replacement *authdomain.RefreshToken) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[oldID]
	if !ok || rec.Revoked {
		return false, nil
	}
	if l.saveErr != nil {
		// Nothing committed: the old record stays live.
		return false, l.saveErr
	}
	rec.Revoked = true
	l.seq++
	replacement.ID = "rt-" + string(rune('0'+l.seq))
	replacement.CreatedAt = time.Now()
	copied := *replacement
	l.records[replacement.ID] = &copied
	return true, nil
}

func (l *fakeLedger) Revoke(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if rec, ok := l.records[id]; ok {
		rec.Revoked = true
	}
	return nil
}

type fakeVerifier struct {
	profile     *google.Profile
	err         error
	exchanged   string
	exchangeErr error
}

func (v *fakeVerifier) Verify(ctx context.Context, idToken string) (*google.Profile, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.profile, nil
}

func (v *fakeVerifier) ExchangeCode(ctx context.Context, code string) (string, error) {
	if v.exchangeErr != nil {
		return "", v.exchangeErr
	}
	v.exchanged = code
	return "id-token-from-exchange", nil
}

func newTestAuth(verifier IdentityVerifier) (AuthUsecase, *fakeUserRepo, *fakeLedger, *token.Issuer) {
	users := newFakeUserRepo()
	ledger := newFakeLedger()
	issuer := token.NewIssuer("usecase-test-secret", time.Hour, 7*24*time.Hour)
	uc := NewAuthUsecase(users, ledger, verifier, issuer, zap.NewNop())
	return uc, users, ledger, issuer
}

func googleProfile() *google.Profile {
	return &google.Profile{
		Subject:       "g-sub-1",
		Email:         "ada@example.com",
		EmailVerified: true,
		Name:          "Ada Lovelace",
		Picture:       "https://example.com/ada.png",
	}
}

func TestGoogleLoginCreatesUser(t *testing.T) {
	uc, users, _, issuer := newTestAuth(&fakeVerifier{profile: googleProfile()})

	result, err := uc.GoogleLogin(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("GoogleLogin: %v", err)
	}
	if users.count() != 1 {
		t.Fatalf("expected exactly one user record, got %d", users.count())
	}
	if result.User.DisplayName != "Ada Lovelace" {
		t.Fatalf("unexpected display name: %s", result.User.DisplayName)
	}

	payload, err := issuer.Verify(result.AccessToken)
	if err != nil {
		t.Fatalf("access token does not verify: %v", err)
	}
	if payload.UserID != result.User.ID {
		t.Fatalf("access token user %s != resolved user %s", payload.UserID, result.User.ID)
	}
}

func TestGoogleLoginUpdatesExistingUserBySubject(t *testing.T) {
	verifier := &fakeVerifier{profile: googleProfile()}
	uc, users, _, _ := newTestAuth(verifier)

	first, err := uc.GoogleLogin(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}

	renamed := googleProfile()
	renamed.Name = "Ada King"
	verifier.profile = renamed

	second, err := uc.GoogleLogin(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if users.count() != 1 {
		t.Fatalf("second login must update, not duplicate; got %d users", users.count())
	}
	if second.User.ID != first.User.ID {
		t.Fatalf("user id changed across logins: %s vs %s", first.User.ID, second.User.ID)
	}
	if second.User.DisplayName != "Ada King" {
		t.Fatalf("display name not refreshed: %s", second.User.DisplayName)
	}
}

func TestGoogleLoginBindsSubjectToEmailMatch(t *testing.T) {
	verifier := &fakeVerifier{profile: googleProfile()}
	uc, users, _, _ := newTestAuth(verifier)

	// Pre-existing account with no subject binding.
	existing := &authdomain.User{Email: "ada@example.com", DisplayName: "Old Name"}
	if err := users.Create(existing); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	result, err := uc.GoogleLogin(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("GoogleLogin: %v", err)
	}
	if users.count() != 1 {
		t.Fatalf("email match must not create a second account, got %d", users.count())
	}
	if result.User.ID != existing.ID {
		t.Fatalf("expected the existing account, got %s", result.User.ID)
	}
	if result.User.GoogleID == nil || *result.User.GoogleID != "g-sub-1" {
		t.Fatalf("subject not bound: %v", result.User.GoogleID)
	}
}

func TestGoogleCodeLoginExchangesAndLogsIn(t *testing.T) {
	verifier := &fakeVerifier{profile: googleProfile()}
	uc, users, _, _ := newTestAuth(verifier)

	result, err := uc.GoogleCodeLogin(context.Background(), "auth-code-1")
	if err != nil {
		t.Fatalf("GoogleCodeLogin: %v", err)
	}
	if verifier.exchanged != "auth-code-1" {
		t.Fatalf("code not passed to the exchange: %q", verifier.exchanged)
	}
	if users.count() != 1 {
		t.Fatalf("expected exactly one user record, got %d", users.count())
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("code login must issue a full token pair")
	}
}

func TestGoogleCodeLoginExchangeFailure(t *testing.T) {
	verifier := &fakeVerifier{exchangeErr: errors.New("invalid_grant")}
	uc, users, _, _ := newTestAuth(verifier)

	_, err := uc.GoogleCodeLogin(context.Background(), "bad-code")
	if !errors.Is(err, authdomain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
	if users.count() != 0 {
		t.Fatalf("failed exchange must not create users, got %d", users.count())
	}
}

func TestGoogleLoginVerifierFailure(t *testing.T) {
	uc, _, _, _ := newTestAuth(&fakeVerifier{err: google.ErrEmailUnverified})

	_, err := uc.GoogleLogin(context.Background(), "id-token")
	if !errors.Is(err, authdomain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestRefreshRotatesAndRejectsReplay(t *testing.T) {
	uc, _, _, _ := newTestAuth(&fakeVerifier{profile: googleProfile()})

	login, err := uc.GoogleLogin(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rotated, err := uc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.UserID != login.User.ID {
		t.Fatalf("rotation changed the user: %s", rotated.UserID)
	}
	if rotated.RefreshToken == login.RefreshToken {
		t.Fatal("rotation must mint a new refresh token")
	}

	// The consumed token can never be used again.
	if _, err := uc.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, authdomain.ErrInvalidRefresh) {
		t.Fatalf("replay must fail with ErrInvalidRefresh, got %v", err)
	}

	// The rotated token still works.
	if _, err := uc.Refresh(context.Background(), rotated.RefreshToken); err != nil {
		t.Fatalf("rotated token should refresh: %v", err)
	}
}

func TestRefreshStorageFailureIsRetryable(t *testing.T) {
	uc, _, ledger, _ := newTestAuth(&fakeVerifier{profile: googleProfile()})

	login, err := uc.GoogleLogin(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// A rotation that fails in storage must not consume the presented
	// token: the client retries with the same value.
	ledger.mu.Lock()
	ledger.saveErr = errors.New("connection reset")
	ledger.mu.Unlock()

	if _, err := uc.Refresh(context.Background(), login.RefreshToken); err == nil {
		t.Fatal("expected the rotation to fail")
	} else if errors.Is(err, authdomain.ErrInvalidRefresh) {
		t.Fatalf("storage failure must not masquerade as an invalid token: %v", err)
	}

	ledger.mu.Lock()
	ledger.saveErr = nil
	ledger.mu.Unlock()

	if _, err := uc.Refresh(context.Background(), login.RefreshToken); err != nil {
		t.Fatalf("retry with the same token should succeed: %v", err)
	}
}

func TestRefreshUnknownToken(t *testing.T) {
	uc, _, _, issuer := newTestAuth(&fakeVerifier{profile: googleProfile()})

	// A well-signed token with no ledger record behind it.
	orphan, err := issuer.IssueRefresh("user-x")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if _, err := uc.Refresh(context.Background(), orphan); !errors.Is(err, authdomain.ErrInvalidRefresh) {
		t.Fatalf("expected ErrInvalidRefresh, got %v", err)
	}
}

func TestRefreshMalformedToken(t *testing.T) {
	uc, _, _, _ := newTestAuth(&fakeVerifier{profile: googleProfile()})

	if _, err := uc.Refresh(context.Background(), "not-a-jwt"); !errors.Is(err, authdomain.ErrInvalidRefresh) {
		t.Fatalf("expected ErrInvalidRefresh, got %v", err)
	}
}

func TestRefreshExpiredRecord(t *testing.T) {
	uc, _, ledger, _ := newTestAuth(&fakeVerifier{profile: googleProfile()})

	login, err := uc.GoogleLogin(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Force the stored record past its expiry.
	rec, err := ledger.FindByToken(login.RefreshToken)
	if err != nil || rec == nil {
		t.Fatalf("ledger record missing: %v", err)
	}
	ledger.mu.Lock()
	ledger.records[rec.ID].ExpiresAt = time.Now().Add(-time.Minute)
	ledger.mu.Unlock()

	if _, err := uc.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, authdomain.ErrInvalidRefresh) {
		t.Fatalf("expected ErrInvalidRefresh for expired record, got %v", err)
	}
}

func TestRefreshDeletedUser(t *testing.T) {
	uc, users, _, _ := newTestAuth(&fakeVerifier{profile: googleProfile()})

	login, err := uc.GoogleLogin(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	users.delete(login.User.ID)
	if _, err := uc.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, authdomain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestConcurrentRefreshSingleWinner(t *testing.T) {
	uc, _, _, _ := newTestAuth(&fakeVerifier{profile: googleProfile()})

	login, err := uc.GoogleLogin(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	const n = 8
	var (
		wg        sync.WaitGroup
		successes int
		mu        sync.Mutex
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := uc.Refresh(context.Background(), login.RefreshToken)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if !errors.Is(err, authdomain.ErrInvalidRefresh) {
				t.Errorf("loser must fail with ErrInvalidRefresh, got %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one winning rotation, got %d", successes)
	}
}

func TestLogoutRevokesLedgerRecord(t *testing.T) {
	uc, _, _, _ := newTestAuth(&fakeVerifier{profile: googleProfile()})

	login, err := uc.GoogleLogin(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := uc.Logout(context.Background(), login.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := uc.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, authdomain.ErrInvalidRefresh) {
		t.Fatalf("refresh after logout must fail, got %v", err)
	}

	// Logout of an unknown or empty token is still fine.
	if err := uc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("empty logout: %v", err)
	}
	if err := uc.Logout(context.Background(), "unknown"); err != nil {
		t.Fatalf("unknown logout: %v", err)
	}
}

func TestGetUser(t *testing.T) {
	uc, users, _, _ := newTestAuth(&fakeVerifier{profile: googleProfile()})

	login, err := uc.GoogleLogin(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user, err := uc.GetUser(context.Background(), login.User.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("unexpected email: %s", user.Email)
	}

	users.delete(login.User.ID)
	if _, err := uc.GetUser(context.Background(), login.User.ID); !errors.Is(err, authdomain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
