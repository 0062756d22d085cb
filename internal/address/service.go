package address

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List(userID int) ([]Address, error) {
	return s.repo.ListByUser(userID)
}

func (s *Service) Get(id int, userID int) (Address, error) {
	return s.repo.Get(id, userID)
}

func (s *Service) Create(a Address) (Address, error) {
	return s.repo.Create(a)
}

func (s *Service) Update(a Address) (Address, error) {
	return s.repo.Update(a)
}

func (s *Service) Delete(id int, userID int) error {
	return s.repo.Delete(id, userID)
}
