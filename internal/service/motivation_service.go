package service

import (
	"github.com/meytoof/MentorAI-sub000/internal/model"
	"github.com/meytoof/MentorAI-sub000/internal/repository"
)

type MotivationService struct {
	Repo *repository.MotivationRepository
}

func NewMotivationService(repo *repository.MotivationRepository) *MotivationService {
	return &MotivationService{Repo: repo}
}

func (s *MotivationService) Current() (*model.Motivation, error) {
	return s.Repo.FindCurrent()
}

func (s *MotivationService) SetCurrent(id uint) error {
	return s.Repo.SetCurrent(id)
}

func (s *MotivationService) List() ([]model.Motivation, error) {
	return s.Repo.List()
}
