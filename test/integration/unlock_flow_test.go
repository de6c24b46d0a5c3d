package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lockdesk/internal/domain"
	"lockdesk/internal/http/handler"
	"lockdesk/internal/http/router"
	"lockdesk/internal/identity"
	"lockdesk/internal/repository"
	"lockdesk/internal/service"
)

const (
	testJWTSecret = "integration-secret-0123456789abcdef"
	testIssuer    = "lockdesk"
	testAudience  = "lockdesk-admin"
)

type unlockTestEnv struct {
	*postgresIntegrationEnv

	baseURL  string
	client   *http.Client
	users    repository.UserRepository
	roles    repository.RoleRepository
	lockouts repository.LockoutRepository
	audits   repository.AuditRepository
}

func newUnlockTestEnv(t *testing.T) *unlockTestEnv {
	t.Helper()
	pg := newPostgresIntegrationEnv(t)

	users := repository.NewUserRepository(pg.db)
	roles := repository.NewRoleRepository(pg.db)
	lockouts := repository.NewLockoutRepository(pg.db)
	audits := repository.NewAuditRepository(pg.db)

	verifier := identity.NewJWTVerifier(testJWTSecret, testIssuer, testAudience)
	// Zero TTL so role grants made mid-test are visible immediately.
	resolver := service.NewCachedRoleResolver(roles, 0)
	store := repository.NewUnlockStore(pg.db, audits)
	lockoutSvc := service.NewLockoutService(lockouts)
	h := handler.NewAdminHandler(verifier, resolver, store, lockoutSvc, pg.cfg.AdminRoleName)

	srv := httptest.NewServer(router.NewRouter(router.Dependencies{AdminHandler: h}))
	t.Cleanup(srv.Close)

	return &unlockTestEnv{
		postgresIntegrationEnv: pg,
		baseURL:                srv.URL,
		client:                 srv.Client(),
		users:                  users,
		roles:                  roles,
		lockouts:               lockouts,
		audits:                 audits,
	}
}

func (e *unlockTestEnv) createUser(t *testing.T, id, email string) {
	t.Helper()
	if err := e.users.Upsert(&domain.User{ID: id, Email: email, Status: "active"}); err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
}

func (e *unlockTestEnv) grantAdmin(t *testing.T, userID string) {
	t.Helper()
	role, err := e.roles.FindByName(e.cfg.AdminRoleName)
	if err != nil {
		t.Fatalf("find admin role: %v", err)
	}
	if err := e.roles.Grant(userID, role.ID); err != nil {
		t.Fatalf("grant admin to %s: %v", userID, err)
	}
}

func (e *unlockTestEnv) signToken(t *testing.T, subject string) string {
	t.Helper()
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    testIssuer,
		Audience:  jwt.ClaimStrings{testAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func (e *unlockTestEnv) postUnlock(t *testing.T, token, userID string) (*http.Response, map[string]any) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"user_id": userID})
	req, err := http.NewRequest(http.MethodPost, e.baseURL+"/api/v1/admin/unlock-account", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	return resp, parsed
}

func TestUnlockFlowEndToEnd(t *testing.T) {
	env := newUnlockTestEnv(t)

	env.createUser(t, "admin-1", "admin@corp.example")
	env.grantAdmin(t, "admin-1")
	env.createUser(t, "locked-1", "locked@corp.example")
	if err := env.lockouts.Lock("locked-1", time.Now().UTC().Add(time.Hour), 5); err != nil {
		t.Fatalf("lock account: %v", err)
	}

	resp, body := env.postUnlock(t, env.signToken(t, "admin-1"), "locked-1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if body["success"] != true || body["message"] != "Account unlocked successfully" {
		t.Fatalf("unexpected body: %v", body)
	}

	lockout, err := env.lockouts.Get("locked-1")
	if err != nil {
		t.Fatalf("get lockout: %v", err)
	}
	if lockout.LockedUntil != nil || lockout.FailedAttempts != 0 {
		t.Fatalf("lockout not cleared: %+v", lockout)
	}
	if lockout.UnlockedBy != "admin-1" {
		t.Fatalf("unlocked_by = %q, want admin-1", lockout.UnlockedBy)
	}

	records, err := env.audits.List(0, 0)
	if err != nil {
		t.Fatalf("list audit records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.ActorID != "admin-1" || rec.RecordID != "locked-1" || rec.ActionType != domain.ActionAccountUnlocked {
		t.Fatalf("unexpected audit record: %+v", rec)
	}
	var values map[string]any
	if err := json.Unmarshal([]byte(rec.NewValues), &values); err != nil {
		t.Fatalf("decode new_values: %v", err)
	}
	if values["was_locked"] != true {
		t.Fatalf("was_locked = %v, want true", values["was_locked"])
	}

	count, err := env.audits.VerifyChain()
	if err != nil {
		t.Fatalf("verify chain: %v", err)
	}
	if count != 1 {
		t.Fatalf("verified records = %d, want 1", count)
	}
}

func TestUnlockFlowNonAdminLeavesNoTrace(t *testing.T) {
	env := newUnlockTestEnv(t)

	env.createUser(t, "user-1", "user@corp.example")
	env.createUser(t, "locked-2", "locked2@corp.example")
	if err := env.lockouts.Lock("locked-2", time.Now().UTC().Add(time.Hour), 3); err != nil {
		t.Fatalf("lock account: %v", err)
	}

	resp, body := env.postUnlock(t, env.signToken(t, "user-1"), "locked-2")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if body["error"] != "Admin access required" {
		t.Fatalf("unexpected body: %v", body)
	}

	lockout, err := env.lockouts.Get("locked-2")
	if err != nil {
		t.Fatalf("get lockout: %v", err)
	}
	if !lockout.Locked(time.Now().UTC()) {
		t.Fatal("lockout must survive a denied request")
	}
	records, err := env.audits.List(0, 0)
	if err != nil {
		t.Fatalf("list audit records: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("audit records = %d, want 0 after denial", len(records))
	}
}

func TestUnlockFlowIdempotentAndChained(t *testing.T) {
	env := newUnlockTestEnv(t)

	env.createUser(t, "admin-2", "admin2@corp.example")
	env.grantAdmin(t, "admin-2")
	token := env.signToken(t, "admin-2")

	// No lockout row exists for this target. The unlock still succeeds and
	// is still audited.
	resp, body := env.postUnlock(t, token, "never-locked")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}

	resp, _ = env.postUnlock(t, token, "never-locked")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("repeat status = %d", resp.StatusCode)
	}

	records, err := env.audits.List(0, 0)
	if err != nil {
		t.Fatalf("list audit records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("audit records = %d, want 2", len(records))
	}
	for i, rec := range records {
		if rec.Seq != uint64(i+1) {
			t.Fatalf("record %d seq = %d", i, rec.Seq)
		}
		var values map[string]any
		if err := json.Unmarshal([]byte(rec.NewValues), &values); err != nil {
			t.Fatalf("decode new_values: %v", err)
		}
		if values["was_locked"] != false {
			t.Fatalf("was_locked = %v, want false", values["was_locked"])
		}
	}
	if _, err := env.audits.VerifyChain(); err != nil {
		t.Fatalf("verify chain: %v", err)
	}
}
