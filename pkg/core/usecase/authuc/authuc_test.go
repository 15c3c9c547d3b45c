package authuc_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/futuremech/fmweb/internal/test/fakes"
	"github.com/futuremech/fmweb/internal/test/memrp"
	"github.com/futuremech/fmweb/pkg/adapter/hash/bcrypt"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/usecase/authuc"
	"github.com/stretchr/testify/suite"
)

type AuthUseCaseTestSuite struct {
	suite.Suite

	ctx    context.Context
	db     *memrp.DB
	tokens *memrp.ResetTokens
	mailer *fakes.Mailer
	idp    *fakes.Identity
	uc     *authuc.UseCase
	now    time.Time
}

func TestAuthUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(AuthUseCaseTestSuite))
}

func (s *AuthUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	s.db = memrp.New()
	s.tokens = memrp.NewResetTokens()
	s.tokens.Now = func() time.Time { return s.now }
	s.mailer = &fakes.Mailer{}
	s.idp = &fakes.Identity{
		Code: "good-code",
		ID: model.ExternalIdentity{
			Subject: "1234", Email: "Jane.Doe@Example.com",
			Name: "Jane", Picture: "https://img.example.com/jane.png",
		},
	}
	h, err := bcrypt.New(4)
	s.Require().NoError(err)
	uc, err := authuc.New(
		s.db, memrp.Users{}, s.tokens, h, s.mailer,
		authuc.WithClock(func() time.Time { return s.now }),
		authuc.WithIdentityProvider(s.idp),
		authuc.WithBaseURL("https://futuremech.example.com"),
	)
	s.Require().NoError(err)
	s.uc = uc
}

func (s *AuthUseCaseTestSuite) register(name, email string) *model.User {
	u, err := s.uc.Register(s.ctx, model.Registration{
		Username: name, Email: email,
		Password: "secret1", ConfirmPassword: "secret1",
	})
	s.Require().NoError(err)
	return u
}

func (s *AuthUseCaseTestSuite) TestRegister() {
	u := s.register(" alice ", " Alice@Example.COM ")
	s.Equal("alice", u.Username)
	s.Equal("alice@example.com", u.Email)
	s.Equal(model.RoleClient, u.Role)
	s.True(u.Active)
	s.NotEqual("secret1", u.PasswordHash)
	s.Equal([]string{"Welcome to Future Mech!"}, s.mailer.Subjects())
	s.Contains(s.mailer.Sent[0].HTML, "Dear alice,")

	_, err := s.uc.Register(s.ctx, model.Registration{
		Username: "alice2", Email: "alice@example.com",
		Password: "secret1", ConfirmPassword: "secret1",
	})
	s.Equal(http.StatusConflict, cerr.StatusCode(err))
}

func (s *AuthUseCaseTestSuite) TestRegisterValidation() {
	for name, reg := range map[string]model.Registration{
		"missing username": {Email: "a@b.c", Password: "secret1", ConfirmPassword: "secret1"},
		"mismatch":         {Username: "a", Email: "a@b.c", Password: "secret1", ConfirmPassword: "secret2"},
		"too short":        {Username: "a", Email: "a@b.c", Password: "abc", ConfirmPassword: "abc"},
		"bad email":        {Username: "a", Email: "abc", Password: "secret1", ConfirmPassword: "secret1"},
	} {
		_, err := s.uc.Register(s.ctx, reg)
		s.Equal(http.StatusBadRequest, cerr.StatusCode(err), name)
	}
	s.Empty(s.mailer.Sent)
}

func (s *AuthUseCaseTestSuite) TestLogin() {
	s.register("bob", "bob@example.com")
	u, err := s.uc.Login(s.ctx, " BOB@example.com", "secret1")
	s.Require().NoError(err)
	s.Equal(model.RoleClient, u.Role)
	s.db.View(func(st *memrp.Store) {
		s.Require().NotNil(st.Users[u.ID].LastLogin)
		s.True(st.Users[u.ID].LastLogin.Equal(s.now))
	})

	_, err = s.uc.Login(s.ctx, "bob@example.com", "wrong-pass")
	s.ErrorIs(err, authuc.ErrInvalidCredentials)
	_, err = s.uc.Login(s.ctx, "nobody@example.com", "secret1")
	s.ErrorIs(err, authuc.ErrInvalidCredentials)
	s.Equal(http.StatusUnauthorized, cerr.StatusCode(err))

	s.db.Update(func(st *memrp.Store) {
		uu := st.Users[u.ID]
		uu.Active = false
		st.Users[u.ID] = uu
	})
	_, err = s.uc.Login(s.ctx, "bob@example.com", "secret1")
	s.ErrorIs(err, authuc.ErrInvalidCredentials, "inactive users may not log in")
}

func (s *AuthUseCaseTestSuite) TestLoginWithIdentity() {
	s.register("jane.doe", "someone@example.com")

	u, err := s.uc.LoginWithIdentity(s.ctx, "good-code")
	s.Require().NoError(err)
	s.Equal("jane.doe1", u.Username, "username must be unique")
	s.Equal("jane.doe@example.com", u.Email)
	s.True(u.EmailVerified)
	s.Equal(s.idp.ID.Picture, u.ProfileImage)
	s.False(u.HasPassword())

	again, err := s.uc.LoginWithIdentity(s.ctx, "good-code")
	s.Require().NoError(err)
	s.Equal(u.ID, again.ID, "known emails log in")

	_, err = s.uc.Login(s.ctx, "jane.doe@example.com", model.ExternalIdentityPassword)
	s.ErrorIs(err, authuc.ErrInvalidCredentials)

	_, err = s.uc.LoginWithIdentity(s.ctx, "bad-code")
	s.Equal(http.StatusUnauthorized, cerr.StatusCode(err))

	url, err := s.uc.IdentityURL("xyz")
	s.Require().NoError(err)
	s.Contains(url, "state=xyz")
}

func (s *AuthUseCaseTestSuite) TestPasswordReset() {
	u := s.register("carol", "carol@example.com")
	s.mailer.Sent = nil

	s.Require().NoError(s.uc.RequestPasswordReset(s.ctx, "nobody@example.com"))
	s.Empty(s.mailer.Sent, "unknown emails receive nothing")
	s.Empty(s.tokens.Tokens())

	s.Require().NoError(s.uc.RequestPasswordReset(s.ctx, "Carol@example.com"))
	s.Require().Len(s.mailer.Sent, 1)
	s.Equal("Password Reset - Future Mech", s.mailer.Sent[0].Subject)
	tokens := s.tokens.Tokens()
	s.Require().Len(tokens, 1)
	s.True(strings.Contains(
		s.mailer.Sent[0].HTML,
		"https://futuremech.example.com/reset-password/"+tokens[0],
	))
	s.Contains(s.mailer.Sent[0].HTML, "1 hour")

	err := s.uc.ResetPassword(s.ctx, tokens[0], "newpass", "other")
	s.ErrorIs(err, authuc.ErrPasswordMismatch)
	s.Require().NoError(s.uc.ResetPassword(s.ctx, tokens[0], "newpass", "newpass"))

	err = s.uc.ResetPassword(s.ctx, tokens[0], "newpass2", "newpass2")
	s.Equal(http.StatusBadRequest, cerr.StatusCode(err), "tokens are single use")

	_, err = s.uc.Login(s.ctx, "carol@example.com", "secret1")
	s.ErrorIs(err, authuc.ErrInvalidCredentials)
	got, err := s.uc.Login(s.ctx, "carol@example.com", "newpass")
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)
}

func (s *AuthUseCaseTestSuite) TestExpiredResetToken() {
	s.register("dave", "dave@example.com")
	s.Require().NoError(s.uc.RequestPasswordReset(s.ctx, "dave@example.com"))
	tokens := s.tokens.Tokens()
	s.Require().Len(tokens, 1)
	s.now = s.now.Add(61 * time.Minute)
	err := s.uc.ResetPassword(s.ctx, tokens[0], "newpass", "newpass")
	s.Equal(http.StatusBadRequest, cerr.StatusCode(err))
}
