package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/snatchgame-go/internal/dependencies/mocks"
	"github.com/mcoot/snatchgame-go/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, mocks.NewMockRandom(), DefaultConfig())
	s.ctx = context.Background()
}

// Guest tests

func (s *ServiceSuite) TestCreateGuestPlayer() {
	session, err := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("Alice", session.Player.DisplayName)
	s.True(session.Player.IsGuest)

	player, err := s.storage.GetPlayer(s.ctx, session.PlayerID)
	s.Require().NoError(err)
	s.Equal("Alice", player.DisplayName)
}

func (s *ServiceSuite) TestCreateGuestPlayerRejectsBadNames() {
	_, err := s.service.CreateGuestPlayer(s.ctx, "   ")
	s.ErrorIs(err, ErrInvalidDisplayName)

	_, err = s.service.CreateGuestPlayer(s.ctx, "this display name is much longer than allowed")
	s.ErrorIs(err, ErrInvalidDisplayName)
}

// Registration tests

func (s *ServiceSuite) TestRegisterAndLogin() {
	session, err := s.service.RegisterPlayer(s.ctx, "Alice", "hunter2hunter2", "Alice")
	s.Require().NoError(err)
	s.False(session.Player.IsGuest)

	// Username matching is case-insensitive
	login, err := s.service.Login(s.ctx, "ALICE", "hunter2hunter2")
	s.Require().NoError(err)
	s.Equal(session.PlayerID, login.PlayerID)
}

func (s *ServiceSuite) TestRegisterRejectsWeakCredentials() {
	_, err := s.service.RegisterPlayer(s.ctx, "al", "hunter2hunter2", "Alice")
	s.ErrorIs(err, ErrInvalidUsername)

	_, err = s.service.RegisterPlayer(s.ctx, "alice", "short", "Alice")
	s.ErrorIs(err, ErrWeakPassword)
}

func (s *ServiceSuite) TestRegisterDuplicateUsername() {
	_, err := s.service.RegisterPlayer(s.ctx, "alice", "hunter2hunter2", "Alice")
	s.Require().NoError(err)

	_, err = s.service.RegisterPlayer(s.ctx, "alice", "otherpassword", "Other Alice")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, err := s.service.RegisterPlayer(s.ctx, "alice", "hunter2hunter2", "Alice")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "alice", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownUsername() {
	_, err := s.service.Login(s.ctx, "nobody", "hunter2hunter2")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Guest upgrade tests

func (s *ServiceSuite) TestUpgradeGuestKeepsPlayerID() {
	guest, err := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	upgraded, err := s.service.UpgradeGuest(s.ctx, guest.Token, "alice", "hunter2hunter2")
	s.Require().NoError(err)
	s.Equal(guest.PlayerID, upgraded.PlayerID)
	s.False(upgraded.Player.IsGuest)

	// The old session is gone, the new one works
	_, err = s.service.ValidateSession(guest.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(upgraded.Token)
	s.NoError(err)

	login, err := s.service.Login(s.ctx, "alice", "hunter2hunter2")
	s.Require().NoError(err)
	s.Equal(guest.PlayerID, login.PlayerID)
}

func (s *ServiceSuite) TestUpgradeRegisteredPlayerRejected() {
	session, err := s.service.RegisterPlayer(s.ctx, "alice", "hunter2hunter2", "Alice")
	s.Require().NoError(err)

	_, err = s.service.UpgradeGuest(s.ctx, session.Token, "alice2", "hunter2hunter2")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Session tests

func (s *ServiceSuite) TestValidateUnknownToken() {
	_, err := s.service.ValidateSession("sess_nope")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestSessionExpires() {
	session, err := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	s.clock.Set(session.ExpiresAt.Add(time.Second))

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSession() {
	session, err := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	s.service.InvalidateSession(session.Token)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestGetPlayer() {
	session, err := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	player, err := s.service.GetPlayer(session.Token)
	s.Require().NoError(err)
	s.Equal("Alice", player.DisplayName)
}

func (s *ServiceSuite) TestCleanExpiredSessions() {
	first, err := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	s.clock.Set(first.ExpiresAt.Add(time.Second))
	second, err := s.service.CreateGuestPlayer(s.ctx, "Bob")
	s.Require().NoError(err)

	s.service.CleanExpiredSessions()

	_, err = s.service.ValidateSession(first.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(second.Token)
	s.NoError(err)
}
