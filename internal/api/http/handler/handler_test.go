package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/internal/api/http/middleware"
	"github.com/techforgyms/techforgyms_backend/internal/repo"
	"github.com/techforgyms/techforgyms_backend/internal/service/admin"
	"github.com/techforgyms/techforgyms_backend/internal/service/auth"
	"github.com/techforgyms/techforgyms_backend/internal/service/billing"
	"github.com/techforgyms/techforgyms_backend/internal/service/gym"
	"github.com/techforgyms/techforgyms_backend/internal/service/member"
	"github.com/techforgyms/techforgyms_backend/internal/service/staff"
	"github.com/techforgyms/techforgyms_backend/pkg/access"
	"github.com/techforgyms/techforgyms_backend/pkg/impersonation"
	"github.com/techforgyms/techforgyms_backend/pkg/reqctx"
)

// ---- fakes ----

type fakeAuth struct {
	signIn    func(email, pw string) (*auth.SignInResult, error)
	signUp    func(req auth.SignUpRequest) (*auth.SignUpResult, error)
	signedOut []uuid.UUID
}

func (f *fakeAuth) SignUp(_ context.Context, req auth.SignUpRequest) (*auth.SignUpResult, error) {
	return f.signUp(req)
}

func (f *fakeAuth) SignIn(_ context.Context, email, pw string) (*auth.SignInResult, error) {
	return f.signIn(email, pw)
}

func (f *fakeAuth) SignOut(_ context.Context, sid uuid.UUID) error {
	f.signedOut = append(f.signedOut, sid)
	return nil
}

type fakeGyms struct {
	gym     *repo.Gym
	err     error
	updated *gym.UpdateRequest
}

func (f *fakeGyms) Get(context.Context, uuid.UUID) (*repo.Gym, error) { return f.gym, f.err }

func (f *fakeGyms) Update(_ context.Context, _ uuid.UUID, req gym.UpdateRequest) (*repo.Gym, error) {
	f.updated = &req
	return f.gym, f.err
}

func (f *fakeGyms) ResolveSite(context.Context, string) (*repo.Gym, error) { return f.gym, f.err }

type fakeMembers struct {
	listGym uuid.UUID
	added   *member.AddRequest
	err     error
}

func (f *fakeMembers) List(_ context.Context, gymID uuid.UUID, _, _ int) ([]*repo.Profile, error) {
	f.listGym = gymID
	return []*repo.Profile{{ID: uuid.New(), Email: "a@b.co", PasswordHash: "secret", Role: "member"}}, f.err
}

func (f *fakeMembers) Add(_ context.Context, gymID uuid.UUID, req member.AddRequest) (*repo.Profile, error) {
	f.added = &req
	if f.err != nil {
		return nil, f.err
	}
	return &repo.Profile{ID: uuid.New(), Email: req.Email, GymID: &gymID, Role: "member"}, nil
}

func (f *fakeMembers) Update(context.Context, uuid.UUID, uuid.UUID, member.UpdateRequest) (*repo.Profile, error) {
	return &repo.Profile{}, f.err
}

func (f *fakeMembers) Remove(context.Context, uuid.UUID, uuid.UUID) error { return f.err }

func (f *fakeMembers) Profile(_ context.Context, id uuid.UUID) (*repo.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &repo.Profile{ID: id, FullName: "Sam Lee", Role: "member"}, nil
}

func (f *fakeMembers) UpdateProfile(context.Context, uuid.UUID, member.UpdateRequest) (*repo.Profile, error) {
	return &repo.Profile{}, f.err
}

type fakeStaff struct {
	invitedBy string
	err       error
}

func (f *fakeStaff) List(context.Context, uuid.UUID) ([]*repo.Profile, error) { return nil, f.err }

func (f *fakeStaff) Add(_ context.Context, _ uuid.UUID, invitedBy string, req staff.AddRequest) (*repo.Profile, error) {
	f.invitedBy = invitedBy
	if f.err != nil {
		return nil, f.err
	}
	return &repo.Profile{ID: uuid.New(), Email: req.Email, Role: req.Role}, nil
}

func (f *fakeStaff) Remove(context.Context, uuid.UUID, uuid.UUID) error { return f.err }

type fakeAdmin struct {
	suspended *bool
	err       error
}

func (f *fakeAdmin) ListGyms(context.Context, int, int) ([]*repo.Gym, error) { return nil, f.err }

func (f *fakeAdmin) SetSuspended(_ context.Context, _ uuid.UUID, s bool) error {
	f.suspended = &s
	return f.err
}

func (f *fakeAdmin) SetRole(context.Context, uuid.UUID, string, *uuid.UUID) error { return f.err }

type fakeBilling struct {
	err error
}

func (f *fakeBilling) Receive(context.Context, []byte, string) (billing.Event, error) {
	return billing.Event{ID: "evt_1", Type: "subscription.updated"}, f.err
}

func (f *fakeBilling) Apply(context.Context, billing.Event) (bool, error) { return true, nil }

// ---- helpers ----

func testJar() middleware.CookieJar {
	cfg := config.AuthenticationConfig{}
	cfg.Cookie.AccessName = "tfg_access"
	cfg.Cookie.RefreshName = "tfg_refresh"
	cfg.Cookie.ImpersonationName = "tfg_impersonation"
	return middleware.NewCookieJar(cfg)
}

func newApp(p access.Principal, sid uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c fiber.Ctx) error {
		ctx := reqctx.WithPrincipal(c.Context(), p)
		if p.Authenticated {
			ctx = reqctx.WithSessionID(ctx, sid)
		}
		c.SetContext(ctx)
		return c.Next()
	})
	return app
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func call(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
	}
	return resp, env
}

func owner(gymID uuid.UUID) access.Principal {
	return access.Principal{UserID: uuid.New(), Role: access.RoleGymOwner, GymID: &gymID, Authenticated: true}
}

// ---- tests ----

func TestAuthHandler_Login(t *testing.T) {
	gymID := uuid.New()

	tests := []struct {
		name     string
		role     access.Role
		redirect string
		query    string
		want     string
	}{
		{"no redirect", access.RoleGymOwner, "", "", "/owner"},
		{"reachable redirect", access.RoleGymOwner, "/owner/members", "", "/owner/members"},
		{"redirect from query", access.RoleGymOwner, "", "?redirect=/owner/staff", "/owner/staff"},
		{"offsite redirect", access.RoleGymOwner, "https://evil.example/owner", "", "/owner"},
		{"protocol relative", access.RoleMember, "//evil.example", "", "/member"},
		{"unreachable zone", access.RoleMember, "/owner", "", "/member"},
		{"auth page", access.RoleSuperAdmin, "/login", "", "/super-admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuth{signIn: func(string, string) (*auth.SignInResult, error) {
				return &auth.SignInResult{
					Tokens:    &auth.Tokens{Access: "acc", Refresh: "ref", ExpiresIn: 900},
					Principal: access.Principal{UserID: uuid.New(), Role: tt.role, GymID: &gymID, Authenticated: true},
				}, nil
			}}
			h := NewAuthHandler(svc, access.NewAuthorizer(), testJar())
			app := newApp(access.Anonymous(), uuid.Nil)
			app.Post("/api/auth/login", h.Login)

			resp, env := call(t, app, jsonRequest(http.MethodPost, "/api/auth/login"+tt.query, fiber.Map{
				"email": "a@b.co", "password": "pw", "redirect": tt.redirect,
			}))
			if resp.StatusCode != fiber.StatusOK {
				t.Fatalf("status = %d (%s)", resp.StatusCode, env.Error)
			}

			var data struct {
				Redirect string `json:"redirect"`
			}
			_ = json.Unmarshal(env.Data, &data)
			if data.Redirect != tt.want {
				t.Errorf("redirect = %q, want %q", data.Redirect, tt.want)
			}

			names := map[string]bool{}
			for _, c := range resp.Cookies() {
				names[c.Name] = true
			}
			if !names["tfg_access"] || !names["tfg_refresh"] {
				t.Errorf("session cookies not set: %v", names)
			}
		})
	}
}

func TestAuthHandler_LoginErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{auth.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{auth.ErrNotConfigured, fiber.StatusServiceUnavailable},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := &fakeAuth{signIn: func(string, string) (*auth.SignInResult, error) { return nil, tt.err }}
			app := newApp(access.Anonymous(), uuid.Nil)
			app.Post("/login", NewAuthHandler(svc, access.NewAuthorizer(), testJar()).Login)

			resp, _ := call(t, app, jsonRequest(http.MethodPost, "/login", fiber.Map{"email": "a@b.co", "password": "x"}))
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestAuthHandler_SignUp(t *testing.T) {
	gymID := uuid.New()
	svc := &fakeAuth{signUp: func(req auth.SignUpRequest) (*auth.SignUpResult, error) {
		if req.Email == "taken@b.co" {
			return nil, auth.ErrEmailTaken
		}
		if req.Role != "gym_owner" {
			return nil, auth.ErrInvalidSignupRole
		}
		return &auth.SignUpResult{
			Profile:   &repo.Profile{ID: uuid.New(), Email: req.Email, PasswordHash: "hash", Role: req.Role, GymID: &gymID},
			Gym:       &repo.Gym{ID: gymID, Name: req.GymName, Slug: "iron-house"},
			Tokens:    &auth.Tokens{Access: "acc", Refresh: "ref", ExpiresIn: 900},
			Principal: owner(gymID),
		}, nil
	}}
	app := newApp(access.Anonymous(), uuid.Nil)
	app.Post("/signup", NewAuthHandler(svc, access.NewAuthorizer(), testJar()).SignUp)

	t.Run("owner", func(t *testing.T) {
		resp, env := call(t, app, jsonRequest(http.MethodPost, "/signup", fiber.Map{
			"email": "o@b.co", "password": "pw123456", "full_name": "O", "role": "gym_owner", "gym_name": "Iron House",
		}))
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("status = %d (%s)", resp.StatusCode, env.Error)
		}
		if bytes.Contains(env.Data, []byte("hash")) {
			t.Error("password hash leaked into response")
		}
		var data struct {
			Redirect string `json:"redirect"`
			Gym      struct {
				Slug string `json:"slug"`
			} `json:"gym"`
		}
		_ = json.Unmarshal(env.Data, &data)
		if data.Redirect != "/owner" || data.Gym.Slug != "iron-house" {
			t.Errorf("data = %+v", data)
		}
	})

	t.Run("conflict", func(t *testing.T) {
		resp, _ := call(t, app, jsonRequest(http.MethodPost, "/signup", fiber.Map{"email": "taken@b.co", "role": "gym_owner"}))
		if resp.StatusCode != fiber.StatusConflict {
			t.Errorf("status = %d, want 409", resp.StatusCode)
		}
	})

	t.Run("bad role", func(t *testing.T) {
		resp, _ := call(t, app, jsonRequest(http.MethodPost, "/signup", fiber.Map{"email": "x@b.co", "role": "super_admin"}))
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	sid := uuid.New()
	svc := &fakeAuth{}
	app := newApp(owner(uuid.New()), sid)
	app.Post("/logout", NewAuthHandler(svc, access.NewAuthorizer(), testJar()).Logout)

	resp, _ := call(t, app, jsonRequest(http.MethodPost, "/logout", nil))
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if len(svc.signedOut) != 1 || svc.signedOut[0] != sid {
		t.Errorf("signed out = %v, want [%s]", svc.signedOut, sid)
	}
	if len(resp.Cookies()) != 3 {
		t.Errorf("cleared %d cookies, want 3", len(resp.Cookies()))
	}
}

func TestSessionHandler(t *testing.T) {
	gymID := uuid.New()
	adminP := access.Principal{UserID: uuid.New(), Role: access.RoleSuperAdmin, Authenticated: true}

	ic, err := impersonation.New(adminP).Begin(gymID, access.RoleGymOwner, time.Now())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	cookie, _ := impersonation.Encode(ic)

	tests := []struct {
		name          string
		p             access.Principal
		cookie        string
		impersonating bool
		role          string
	}{
		{"admin impersonating", adminP, cookie, true, "gym_owner"},
		{"admin without cookie", adminP, "", false, "super_admin"},
		{"other user presenting cookie", owner(uuid.New()), cookie, false, "gym_owner"},
		{"garbage cookie", adminP, "%%%", false, "super_admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(tt.p, uuid.New())
			app.Get("/api/session", NewSessionHandler(testJar()).Get)

			req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "tfg_impersonation", Value: tt.cookie})
			}
			resp, env := call(t, app, req)
			if resp.StatusCode != fiber.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			var data struct {
				Impersonating bool   `json:"impersonating"`
				EffectiveRole string `json:"effective_role"`
				Principal     struct {
					Role string `json:"role"`
				} `json:"principal"`
			}
			_ = json.Unmarshal(env.Data, &data)
			if data.Impersonating != tt.impersonating || data.EffectiveRole != tt.role {
				t.Errorf("data = %+v", data)
			}
			if data.Principal.Role != tt.p.Role.String() {
				t.Errorf("real role = %q, want %q", data.Principal.Role, tt.p.Role)
			}
		})
	}
}

func TestAdminHandler_Impersonation(t *testing.T) {
	adminP := access.Principal{UserID: uuid.New(), Role: access.RoleSuperAdmin, Authenticated: true}
	gymID := uuid.New()

	t.Run("begin sets cookie only", func(t *testing.T) {
		app := newApp(adminP, uuid.New())
		app.Post("/imp", NewAdminHandler(&fakeAdmin{}, testJar()).BeginImpersonation)

		resp, env := call(t, app, jsonRequest(http.MethodPost, "/imp", fiber.Map{"gym_id": gymID, "role": "gym_staff"}))
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d (%s)", resp.StatusCode, env.Error)
		}
		var value string
		for _, c := range resp.Cookies() {
			if c.Name == "tfg_impersonation" {
				value = c.Value
			}
		}
		ic, err := impersonation.Decode(adminP, value)
		if err != nil || !ic.Active() || ic.EffectiveRole() != access.RoleGymStaff {
			t.Errorf("cookie decodes to %+v (err %v)", ic, err)
		}
		if ic.Real.Role != access.RoleSuperAdmin {
			t.Errorf("real role changed to %s", ic.Real.Role)
		}
	})

	t.Run("target super admin rejected", func(t *testing.T) {
		app := newApp(adminP, uuid.New())
		app.Post("/imp", NewAdminHandler(&fakeAdmin{}, testJar()).BeginImpersonation)
		resp, _ := call(t, app, jsonRequest(http.MethodPost, "/imp", fiber.Map{"gym_id": gymID, "role": "super_admin"}))
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("non admin rejected", func(t *testing.T) {
		app := newApp(owner(gymID), uuid.New())
		app.Post("/imp", NewAdminHandler(&fakeAdmin{}, testJar()).BeginImpersonation)
		resp, _ := call(t, app, jsonRequest(http.MethodPost, "/imp", fiber.Map{"gym_id": gymID, "role": "member"}))
		if resp.StatusCode != fiber.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})

	t.Run("end clears cookie", func(t *testing.T) {
		app := newApp(adminP, uuid.New())
		app.Delete("/imp", NewAdminHandler(&fakeAdmin{}, testJar()).EndImpersonation)
		resp, _ := call(t, app, jsonRequest(http.MethodDelete, "/imp", nil))
		if resp.StatusCode != fiber.StatusNoContent {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		cookies := resp.Cookies()
		if len(cookies) != 1 || cookies[0].Name != "tfg_impersonation" || cookies[0].Value != "" {
			t.Errorf("cookies = %+v", cookies)
		}
	})
}

func TestAdminHandler_SetSuspension(t *testing.T) {
	adminP := access.Principal{UserID: uuid.New(), Role: access.RoleSuperAdmin, Authenticated: true}

	tests := []struct {
		name string
		id   string
		body any
		err  error
		want int
	}{
		{"suspend", uuid.NewString(), fiber.Map{"suspended": true}, nil, 204},
		{"missing field", uuid.NewString(), fiber.Map{}, nil, 400},
		{"bad id", "nope", fiber.Map{"suspended": true}, nil, 400},
		{"unknown gym", uuid.NewString(), fiber.Map{"suspended": false}, admin.ErrGymNotFound, 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAdmin{err: tt.err}
			app := newApp(adminP, uuid.New())
			app.Patch("/gyms/:id/suspension", NewAdminHandler(svc, testJar()).SetSuspension)
			resp, _ := call(t, app, jsonRequest(http.MethodPatch, "/gyms/"+tt.id+"/suspension", tt.body))
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestOwnerHandler(t *testing.T) {
	gymID := uuid.New()
	p := owner(gymID)

	t.Run("members scoped to session gym", func(t *testing.T) {
		members := &fakeMembers{}
		h := NewOwnerHandler(&fakeGyms{}, members, &fakeStaff{})
		app := newApp(p, uuid.New())
		app.Get("/members", middleware.GymScope(), h.ListMembers)

		resp, env := call(t, app, httptest.NewRequest(http.MethodGet, "/members?gym_id="+uuid.NewString(), nil))
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if members.listGym != gymID {
			t.Errorf("listed gym %s, want %s", members.listGym, gymID)
		}
		if bytes.Contains(env.Data, []byte("secret")) {
			t.Error("password hash leaked into response")
		}
	})

	t.Run("update gym never touches slug", func(t *testing.T) {
		gyms := &fakeGyms{gym: &repo.Gym{ID: gymID, Slug: "iron-house"}}
		app := newApp(p, uuid.New())
		app.Patch("/gym", middleware.GymScope(), NewOwnerHandler(gyms, &fakeMembers{}, &fakeStaff{}).UpdateGym)

		resp, _ := call(t, app, jsonRequest(http.MethodPatch, "/gym", fiber.Map{"name": "Iron", "slug": "other"}))
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if gyms.updated == nil || gyms.updated.Name == nil || *gyms.updated.Name != "Iron" || gyms.updated.CustomDomain != nil {
			t.Errorf("update = %+v", gyms.updated)
		}
	})

	t.Run("error mapping", func(t *testing.T) {
		tests := []struct {
			err  error
			want int
		}{
			{gym.ErrDomainTaken, 409},
			{gym.ErrPlatformDomain, 400},
			{gym.ErrNotFound, 404},
		}
		for _, tt := range tests {
			app := newApp(p, uuid.New())
			app.Patch("/gym", middleware.GymScope(), NewOwnerHandler(&fakeGyms{err: tt.err}, &fakeMembers{}, &fakeStaff{}).UpdateGym)
			resp, _ := call(t, app, jsonRequest(http.MethodPatch, "/gym", fiber.Map{"custom_domain": "x"}))
			if resp.StatusCode != tt.want {
				t.Errorf("%v: status = %d, want %d", tt.err, resp.StatusCode, tt.want)
			}
		}
	})

	t.Run("add staff passes inviter", func(t *testing.T) {
		st := &fakeStaff{}
		app := newApp(p, uuid.New())
		app.Post("/staff", middleware.GymScope(), NewOwnerHandler(&fakeGyms{}, &fakeMembers{}, st).AddStaff)

		resp, _ := call(t, app, jsonRequest(http.MethodPost, "/staff", fiber.Map{"email": "s@b.co", "role": "gym_staff"}))
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if st.invitedBy != "Sam Lee" {
			t.Errorf("invitedBy = %q", st.invitedBy)
		}
	})

	t.Run("staff from another gym", func(t *testing.T) {
		app := newApp(p, uuid.New())
		app.Post("/staff", middleware.GymScope(), NewOwnerHandler(&fakeGyms{}, &fakeMembers{}, &fakeStaff{err: staff.ErrOtherGym}).AddStaff)
		resp, _ := call(t, app, jsonRequest(http.MethodPost, "/staff", fiber.Map{"email": "s@b.co", "role": "gym_staff"}))
		if resp.StatusCode != fiber.StatusConflict {
			t.Errorf("status = %d, want 409", resp.StatusCode)
		}
	})
}

func TestMemberHandler(t *testing.T) {
	gymID := uuid.New()
	p := access.Principal{UserID: uuid.New(), Role: access.RoleMember, GymID: &gymID, Authenticated: true}

	app := newApp(p, uuid.New())
	h := NewMemberHandler(&fakeMembers{})
	app.Get("/profile", h.GetProfile)

	resp, env := call(t, app, httptest.NewRequest(http.MethodGet, "/profile", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var data struct {
		ID uuid.UUID `json:"id"`
	}
	_ = json.Unmarshal(env.Data, &data)
	if data.ID != p.UserID {
		t.Errorf("profile id = %s, want caller %s", data.ID, p.UserID)
	}

	anon := newApp(access.Anonymous(), uuid.Nil)
	anon.Get("/profile", h.GetProfile)
	resp, _ = call(t, anon, httptest.NewRequest(http.MethodGet, "/profile", nil))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", resp.StatusCode)
	}
}

func TestSiteHandler(t *testing.T) {
	live := &repo.Gym{ID: uuid.New(), Name: "Iron House", Slug: "iron-house", Tier: "starter"}

	tests := []struct {
		name       string
		svc        *fakeGyms
		target     string
		want       int
		retryAfter bool
	}{
		{"live", &fakeGyms{gym: live}, "/sites/iron-house/classes", 200, false},
		{"unknown", &fakeGyms{err: gym.ErrNotFound}, "/sites/nope", 404, false},
		{"suspended", &fakeGyms{gym: live, err: gym.ErrSuspended}, "/sites/iron-house", 503, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSiteHandler(tt.svc)
			app := fiber.New()
			app.Get("/sites/:key", h.Show)
			app.Get("/sites/:key/*", h.Show)

			resp, env := call(t, app, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if got := resp.Header.Get(fiber.HeaderRetryAfter) != ""; got != tt.retryAfter {
				t.Errorf("Retry-After present = %v, want %v", got, tt.retryAfter)
			}
			if tt.want == 200 {
				var data struct {
					Path string `json:"path"`
				}
				_ = json.Unmarshal(env.Data, &data)
				if data.Path != "/classes" {
					t.Errorf("path = %q", data.Path)
				}
			}
		})
	}
}

func TestBillingHandler(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, fiber.StatusAccepted},
		{billing.ErrBadSignature, fiber.StatusUnauthorized},
		{billing.ErrStaleSignature, fiber.StatusUnauthorized},
		{billing.ErrInvalidEvent, fiber.StatusBadRequest},
		{billing.ErrNotConfigured, fiber.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		name := "ok"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/hook", NewBillingHandler(&fakeBilling{err: tt.err}).Webhook)
			resp, _ := call(t, app, jsonRequest(http.MethodPost, "/hook", fiber.Map{"id": "evt_1"}))
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestPageHandler(t *testing.T) {
	app := newApp(owner(uuid.New()), uuid.New())
	h := NewPageHandler()
	app.Get("/owner", h.Owner)
	app.Get("/login", h.Login)

	resp, env := call(t, app, httptest.NewRequest(http.MethodGet, "/owner", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var data struct {
		Page      string `json:"page"`
		Principal struct {
			Role string `json:"role"`
		} `json:"principal"`
	}
	_ = json.Unmarshal(env.Data, &data)
	if data.Page != "owner" || data.Principal.Role != "gym_owner" {
		t.Errorf("data = %+v", data)
	}
}
