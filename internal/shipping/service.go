package shipping

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ResolveByCity returns the zone serving a city, or nil when no zone
// matches. Absence of a match is not an error: checkout falls back to
// the flat shipping fee.
func (s *Service) ResolveByCity(city string) (*Zone, error) {
	zones, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	for i := range zones {
		if zones[i].Matches(city) {
			return &zones[i], nil
		}
	}
	return nil, nil
}
