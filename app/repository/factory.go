package repository

import (
	"sync"

	"gorm.io/gorm"

	"github.com/betercalls/BeterCalls/internal/pkg/database"
)

// Repositories bundles all repository instances
type Repositories struct {
	User       UserRepository
	Plan       PlanRepository
	Expert     ExpertRepository
	Call       CallRepository
	Discussion DiscussionRepository
}

// NewRepositories creates all repositories from a single DB handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Plan:       NewPlanRepository(db),
		Expert:     NewExpertRepository(db),
		Call:       NewCallRepository(db),
		Discussion: NewDiscussionRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetPlanRepository returns the plan repository instance
func (f *Factory) GetPlanRepository() PlanRepository {
	return f.GetRepositories().Plan
}

// GetExpertRepository returns the expert repository instance
func (f *Factory) GetExpertRepository() ExpertRepository {
	return f.GetRepositories().Expert
}

// GetCallRepository returns the call repository instance
func (f *Factory) GetCallRepository() CallRepository {
	return f.GetRepositories().Call
}

// GetDiscussionRepository returns the discussion repository instance
func (f *Factory) GetDiscussionRepository() DiscussionRepository {
	return f.GetRepositories().Discussion
}

var (
	globalFactory     *Factory
	globalFactoryOnce sync.Once
)

// GetGlobalRepositories returns the application-wide repository bundle backed
// by the default database handle.
func GetGlobalRepositories() *Repositories {
	globalFactoryOnce.Do(func() {
		globalFactory = NewFactory(database.GetDB())
	})
	return globalFactory.GetRepositories()
}
