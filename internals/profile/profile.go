package profile

import (
	"errors"
	"math"

	"github.com/kridavyuha/cricket-pools/internals/ledger"
)

var ErrProfileNotFound = errors.New("profile not found")

type Source interface {
	GetUser(id string) (*ledger.User, bool)
	GetUserPools(userID string) []ledger.Pool
}

type ProfileService struct {
	src Source
}

func New(src Source) *ProfileService {
	return &ProfileService{src: src}
}

func (ps *ProfileService) GetProfile(userID string) (CompleteProfile, error) {
	var completeProfile CompleteProfile

	user, ok := ps.src.GetUser(userID)
	if !ok {
		return completeProfile, ErrProfileNotFound
	}
	completeProfile.User = *user
	if user.TotalPredictions > 0 {
		completeProfile.Accuracy = int(math.Round(float64(user.CorrectPredictions) / float64(user.TotalPredictions) * 100))
	}

	// Get my pools..
	completeProfile.Pools = make([]PoolSummary, 0)
	for _, p := range ps.src.GetUserPools(userID) {
		summary := PoolSummary{
			PoolID:       p.ID,
			Name:         p.Name,
			TournamentID: p.TournamentID,
			Members:      len(p.Members),
			IsAdmin:      p.AdminID == userID,
		}
		for i, m := range p.Members {
			if m.UserID != userID {
				continue
			}
			summary.Points = m.Points
			summary.Rank = m.Rank
			if summary.Rank == 0 {
				summary.Rank = i + 1
			}
		}
		completeProfile.Points += summary.Points
		completeProfile.Pools = append(completeProfile.Pools, summary)
	}

	return completeProfile, nil
}
