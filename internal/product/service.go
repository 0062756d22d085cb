package product

// ServiceInterface lets the cart and order packages depend on product
// lookups without binding to the concrete service.
type ServiceInterface interface {
	List(activeOnly bool) ([]Product, error)
	ListByCategory(categoryID int) ([]Product, error)
	GetByID(id int) (Product, error)
	DecreaseStock(id int, qty int) (bool, error)
	IncreaseStock(id int, qty int) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(activeOnly bool) ([]Product, error) {
	return s.repo.List(activeOnly)
}

func (s *Service) ListByCategory(categoryID int) ([]Product, error) {
	return s.repo.ListByCategory(categoryID)
}

func (s *Service) GetByID(id int) (Product, error) {
	if id <= 0 {
		return Product{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

func (s *Service) DecreaseStock(id int, qty int) (bool, error) {
	if qty <= 0 {
		return false, nil
	}
	return s.repo.DecreaseStock(id, qty)
}

func (s *Service) IncreaseStock(id int, qty int) error {
	if qty <= 0 {
		return nil
	}
	return s.repo.IncreaseStock(id, qty)
}
