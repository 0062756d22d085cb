package category

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List() ([]Category, error) {
	return s.repo.List()
}

func (s *Service) GetBySlug(slug string) (Category, error) {
	return s.repo.GetBySlug(slug)
}
