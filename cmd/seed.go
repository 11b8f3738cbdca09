package cmd

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vibast-solutions/ms-go-lubycash/app/entity"
	"github.com/vibast-solutions/ms-go-lubycash/app/repository"
	"github.com/vibast-solutions/ms-go-lubycash/app/service"
	"github.com/vibast-solutions/ms-go-lubycash/app/types"
	"github.com/vibast-solutions/ms-go-lubycash/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var seedSampleUsers bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed default roles",
	Long:  `Insert or refresh the admin, customer and user roles. With --sample-users also creates one account per role.`,
	Run:   runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedSampleUsers, "sample-users", false, "create sample admin, customer and user accounts")
	rootCmd.AddCommand(seedCmd)
}

type sampleUser struct {
	role entity.RoleType
	req  types.CreateUserRequest
}

var sampleUsers = []sampleUser{
	{
		role: entity.RoleAdmin,
		req: types.CreateUserRequest{
			Name: "Administrator", CPF: "123.123.123-01", Phone: "+55(22)99999-9991",
			Email: "admin@email.com", Password: "secret",
			Address: "123 Admin Street", City: "London", State: "CA", ZipCode: "12345678",
		},
	},
	{
		role: entity.RoleCustomer,
		req: types.CreateUserRequest{
			Name: "Customer", CPF: "123.123.123-02", Phone: "+55(22)99999-9992",
			Email: "customer@email.com", Password: "secret",
			Address: "123 Customer Street", City: "Los Angeles", State: "CA", ZipCode: "12345680",
		},
	},
	{
		role: entity.RoleUser,
		req: types.CreateUserRequest{
			Name: "User", CPF: "123.123.123-03", Phone: "+55(22)99999-9993",
			Email: "user@email.com", Password: "secret",
			Address: "123 User Street", City: "New York", State: "NY", ZipCode: "12345690",
		},
	},
}

func runSeed(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := openDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := seedRoles(ctx, repository.NewRoleRepository(db)); err != nil {
		logrus.WithError(err).Fatal("Failed to seed roles")
	}

	if seedSampleUsers {
		if err := seedUsers(ctx, db, cfg); err != nil {
			logrus.WithError(err).Fatal("Failed to seed sample users")
		}
	}
}

type roleUpserter interface {
	Upsert(ctx context.Context, role *entity.Role) error
}

func seedRoles(ctx context.Context, roles roleUpserter) error {
	for _, roleType := range entity.AllRoles {
		if err := roles.Upsert(ctx, &entity.Role{Type: roleType, Description: roleType.Description()}); err != nil {
			return err
		}
		logrus.WithField("role", roleType).Info("Role seeded")
	}
	return nil
}

func seedUsers(ctx context.Context, db *sql.DB, cfg *config.Config) error {
	userRepo := repository.NewUserRepository(db)
	userService := service.NewUserService(db, userRepo, repository.NewAddressRepository(db), nil, nil, cfg)

	for _, sample := range sampleUsers {
		req := sample.req
		created, err := userService.Create(ctx, &req)
		if errors.Is(err, service.ErrUserExists) {
			logrus.WithField("email", req.Email).Info("Sample user already exists")
			continue
		}
		if err != nil {
			return err
		}

		if sample.role != entity.RoleUser {
			user, err := userRepo.FindBySecureID(ctx, created.SecureID)
			if err != nil {
				return err
			}
			if user == nil {
				return service.ErrUserNotFound
			}
			if err = userRepo.AddRole(ctx, user.ID, sample.role); err != nil {
				return err
			}
		}
		logrus.WithFields(logrus.Fields{
			"email": req.Email,
			"role":  sample.role,
		}).Info("Sample user seeded")
	}
	return nil
}
