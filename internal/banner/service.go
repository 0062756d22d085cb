package banner

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List(limit int) []Banner {
	banners, err := s.repo.List(limit)
	if err != nil {
		return []Banner{}
	}
	return banners
}
