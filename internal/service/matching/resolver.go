// Package matching implements the donor-matching pipeline: resolving which
// available donors can serve a blood request, fanning a request out into
// per-donor notifications, and the watcher that drives both from the change
// feed with a reconciliation backstop.
package matching

import (
	"context"

	"go.uber.org/zap"

	"bloodlink/internal/domain"
	"bloodlink/internal/repository"
)

// Resolver computes the set of donors eligible to fulfill a request.
type Resolver interface {
	Resolve(ctx context.Context, req *domain.BloodRequest) ([]domain.Donor, error)
}

type resolver struct {
	donorRepo repository.DonorRepository
	logger    *zap.Logger
}

func NewResolver(donorRepo repository.DonorRepository, logger *zap.Logger) Resolver {
	return &resolver{donorRepo: donorRepo, logger: logger}
}

// Resolve reads the current donor directory and filters by compatibility.
// Only available donors are considered; a request with an unknown blood type
// matches nobody. An empty result is not an error.
func (r *resolver) Resolve(ctx context.Context, req *domain.BloodRequest) ([]domain.Donor, error) {
	if !req.BloodType.IsValid() {
		r.logger.Warn("request has unknown blood type, resolving to no donors",
			zap.String("request_id", req.ID.String()),
			zap.String("blood_type", string(req.BloodType)))
		return nil, nil
	}

	donors, err := r.donorRepo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]domain.Donor, 0, len(donors))
	for _, donor := range donors {
		if !donor.IsAvailable {
			continue
		}
		if donor.BloodType.CanDonateTo(req.BloodType) {
			eligible = append(eligible, donor)
		}
	}
	return eligible, nil
}
