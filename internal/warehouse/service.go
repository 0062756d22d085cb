package warehouse

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) ListByProduct(productID int) ([]Stock, error) {
	return s.repo.ListByProduct(productID)
}

func (s *Service) Reserve(productID int, qty int) error {
	return s.repo.Reserve(productID, qty)
}

func (s *Service) Release(productID int, qty int) error {
	return s.repo.Release(productID, qty)
}

func (s *Service) Confirm(productID int, qty int) error {
	return s.repo.Confirm(productID, qty)
}
