package service

import (
	"errors"
	"time"

	"github.com/meytoof/MentorAI-sub000/internal/model"
	"github.com/meytoof/MentorAI-sub000/internal/repository"
	"github.com/meytoof/MentorAI-sub000/internal/util"

	"gorm.io/gorm"
)

// UserService handles learner profiles plus the streak/XP bookkeeping the
// tutoring pipeline feeds.
type UserService struct {
	UserRepo    *repository.UserRepository
	CheckinRepo *repository.CheckinRepository
}

func NewUserService(userRepo *repository.UserRepository, checkinRepo *repository.CheckinRepository) *UserService {
	return &UserService{
		UserRepo:    userRepo,
		CheckinRepo: checkinRepo,
	}
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	return s.UserRepo.FindByID(id)
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name     string
	Grade    string
	Language string
	EasyMode *bool
}

func (s *UserService) UpdateProfile(userID uint, upd ProfileUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if upd.Name != "" {
		user.Name = upd.Name
	}
	if upd.Grade != "" {
		user.Grade = upd.Grade
	}
	if upd.Language != "" {
		user.Language = upd.Language
	}
	if upd.EasyMode != nil {
		user.EasyMode = *upd.EasyMode
	}
	user.UpdatedAt = time.Now()

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// RecordActivity awards XP for one completed exchange and advances the
// daily streak. Called off the response path; errors are for the log only.
func (s *UserService) RecordActivity(userID uint, xp int) error {
	if err := s.UserRepo.UpdateXP(userID, xp); err != nil {
		return err
	}
	_, err := s.Checkin(userID)
	if err != nil && !errors.Is(err, ErrAlreadyCheckedIn) {
		return err
	}
	return nil
}

var ErrAlreadyCheckedIn = errors.New("already checked in today")

// Checkin registers today's activity and computes the running streak:
// consecutive-day checkins extend it, a gap resets it to 1.
func (s *UserService) Checkin(userID uint) (*model.Checkin, error) {
	now := time.Now()

	if existing, err := s.CheckinRepo.FindByUserAndDate(userID, now); err == nil {
		return existing, ErrAlreadyCheckedIn
	}

	streak := 1
	if latest, err := s.CheckinRepo.FindLatestByUser(userID); err == nil {
		yesterday := now.AddDate(0, 0, -1)
		if latest.CheckinAt.Year() == yesterday.Year() && latest.CheckinAt.YearDay() == yesterday.YearDay() {
			streak = latest.StreakDays + 1
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	checkin := &model.Checkin{
		UserID:     userID,
		CheckinAt:  now,
		StreakDays: streak,
	}
	if err := s.CheckinRepo.Create(checkin); err != nil {
		return nil, err
	}
	return checkin, nil
}

// IsCheckedInToday reports today's streak status for the profile screen.
func (s *UserService) IsCheckedInToday(userID uint) (bool, error) {
	_, err := s.CheckinRepo.FindByUserAndDate(userID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *UserService) GetUsers(page, limit int) ([]model.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.UserRepo.List(page, limit)
}
