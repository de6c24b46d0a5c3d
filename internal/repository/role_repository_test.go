package repository

import (
	"testing"

	"lockdesk/internal/domain"
)

func TestRoleRepositoryHasRole(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewRoleRepository(db)

	admin := domain.Role{Name: "admin"}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("create role: %v", err)
	}
	u := domain.User{ID: "user-1", Email: "a@example.com"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	ok, err := repo.HasRole("user-1", "admin")
	if err != nil {
		t.Fatalf("has role: %v", err)
	}
	if ok {
		t.Fatal("expected no admin role before grant")
	}

	if err := repo.Grant("user-1", admin.ID); err != nil {
		t.Fatalf("grant: %v", err)
	}

	ok, err = repo.HasRole("user-1", "admin")
	if err != nil {
		t.Fatalf("has role after grant: %v", err)
	}
	if !ok {
		t.Fatal("expected admin role after grant")
	}

	// Unknown users simply have no roles.
	ok, err = repo.HasRole("ghost", "admin")
	if err != nil {
		t.Fatalf("has role for unknown user: %v", err)
	}
	if ok {
		t.Fatal("unknown user must not have a role")
	}
}

func TestRoleRepositoryFindByName(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewRoleRepository(db)

	if _, err := repo.FindByName("missing"); err == nil {
		t.Fatal("expected error for missing role")
	}

	if err := db.Create(&domain.Role{Name: "support"}).Error; err != nil {
		t.Fatalf("create role: %v", err)
	}
	role, err := repo.FindByName("support")
	if err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if role.Name != "support" {
		t.Fatalf("name = %q", role.Name)
	}
}
