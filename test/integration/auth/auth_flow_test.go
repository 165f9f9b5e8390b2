// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

//go:build integration

package auth_test

import (
	"time"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/gatehouse/gatehouse/internal/auth"
)

var _ = Describe("Auth service", func() {
	var (
		manager *auth.SessionManager
		svc     *auth.Service
	)

	BeforeEach(func() {
		cleanupTables(env.ctx, env.pool)

		var err error
		manager, err = auth.NewSessionManager(env.Sessions, time.Hour)
		Expect(err).NotTo(HaveOccurred())
		svc, err = auth.NewService(env.Users, manager, auth.NewBcryptHasher(4))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Signup", func() {
		It("persists the user with a hashed password and the default role", func() {
			snapshot, token, err := svc.Signup(env.ctx, auth.SignupInput{
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "password123",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())
			Expect(snapshot.Role).To(Equal(auth.RoleUser))

			stored, err := env.Users.GetByEmail(env.ctx, "alice@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.PasswordHash).NotTo(BeEmpty())
			Expect(stored.PasswordHash).NotTo(ContainSubstring("password123"))
			Expect(stored.Role).To(Equal(auth.RoleUser))
		})

		It("rejects a duplicate email regardless of casing", func() {
			_, _, err := svc.Signup(env.ctx, auth.SignupInput{
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "password123",
			})
			Expect(err).NotTo(HaveOccurred())

			_, _, err = svc.Signup(env.ctx, auth.SignupInput{
				Name:     "Mallory",
				Email:    "ALICE@Example.COM",
				Password: "password456",
			})
			Expect(err).To(MatchError(auth.ErrDuplicateEmail))
		})

		It("preserves the submitted email casing in storage", func() {
			_, _, err := svc.Signup(env.ctx, auth.SignupInput{
				Name:     "Bob",
				Email:    "Bob.Smith@Example.com",
				Password: "password123",
			})
			Expect(err).NotTo(HaveOccurred())

			stored, err := env.Users.GetByEmail(env.ctx, "bob.smith@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Email).To(Equal("Bob.Smith@Example.com"))
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			_, _, err := svc.Signup(env.ctx, auth.SignupInput{
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "password123",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("issues a session for valid credentials", func() {
			snapshot, token, err := svc.Login(env.ctx, auth.LoginInput{
				Email:    "alice@example.com",
				Password: "password123",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.Name).To(Equal("Alice"))

			read, err := manager.Read(env.ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(read.ID).To(Equal(snapshot.ID))
		})

		It("rejects a wrong password and an unknown email identically", func() {
			_, _, wrongErr := svc.Login(env.ctx, auth.LoginInput{
				Email:    "alice@example.com",
				Password: "wrong-password",
			})
			_, _, unknownErr := svc.Login(env.ctx, auth.LoginInput{
				Email:    "nobody@example.com",
				Password: "password123",
			})

			Expect(wrongErr).To(MatchError(auth.ErrInvalidCredentials))
			Expect(unknownErr).To(MatchError(auth.ErrInvalidCredentials))
		})
	})

	Describe("Sessions", func() {
		var token string

		BeforeEach(func() {
			var err error
			_, token, err = svc.Signup(env.ctx, auth.SignupInput{
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "password123",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("destroys a session idempotently", func() {
			Expect(svc.Logout(env.ctx, token)).To(Succeed())
			Expect(svc.Logout(env.ctx, token)).To(Succeed())

			_, err := manager.Read(env.ctx, token)
			Expect(err).To(MatchError(auth.ErrNoSession))
		})

		It("treats an expired session as absent and removes its row", func() {
			user, err := env.Users.GetByEmail(env.ctx, "alice@example.com")
			Expect(err).NotTo(HaveOccurred())

			expiredToken, tokenHash, err := auth.GenerateSessionToken()
			Expect(err).NotTo(HaveOccurred())
			session, err := auth.NewSession(user.Snapshot(), tokenHash, time.Now().Add(-time.Minute))
			Expect(err).NotTo(HaveOccurred())
			Expect(env.Sessions.Create(env.ctx, session)).To(Succeed())

			_, err = manager.Read(env.ctx, expiredToken)
			Expect(err).To(MatchError(auth.ErrNoSession))

			_, err = env.Sessions.GetByTokenHash(env.ctx, tokenHash)
			Expect(err).To(MatchError(auth.ErrNotFound))
		})

		It("sweeps expired rows with DeleteExpired", func() {
			user, err := env.Users.GetByEmail(env.ctx, "alice@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, tokenHash, err := auth.GenerateSessionToken()
			Expect(err).NotTo(HaveOccurred())
			session, err := auth.NewSession(user.Snapshot(), tokenHash, time.Now().Add(-time.Minute))
			Expect(err).NotTo(HaveOccurred())
			Expect(env.Sessions.Create(env.ctx, session)).To(Succeed())

			deleted, err := env.Sessions.DeleteExpired(env.ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeNumerically(">=", 1))

			// The live session from signup survives the sweep.
			_, err = manager.Read(env.ctx, token)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("ToggleRole", func() {
		It("flips the role and persists it", func() {
			snapshot, _, err := svc.Signup(env.ctx, auth.SignupInput{
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "password123",
			})
			Expect(err).NotTo(HaveOccurred())

			updated, err := svc.ToggleRole(env.ctx, snapshot.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Role).To(Equal(auth.RoleAdmin))

			stored, err := env.Users.GetByID(env.ctx, snapshot.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Role).To(Equal(auth.RoleAdmin))

			back, err := svc.ToggleRole(env.ctx, snapshot.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(back.Role).To(Equal(auth.RoleUser))
		})

		It("does not refresh existing session snapshots", func() {
			snapshot, token, err := svc.Signup(env.ctx, auth.SignupInput{
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "password123",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.ToggleRole(env.ctx, snapshot.ID)
			Expect(err).NotTo(HaveOccurred())

			read, err := manager.Read(env.ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(read.Role).To(Equal(auth.RoleUser), "snapshot captured at issuance stays stale")
		})

		It("returns ErrNotFound for an unknown id", func() {
			_, err := svc.ToggleRole(env.ctx, ulid.Make())
			Expect(err).To(MatchError(auth.ErrNotFound))
		})
	})

	Describe("UserRepository uniqueness index", func() {
		It("rejects a direct insert that differs only by email case", func() {
			hasher := auth.NewBcryptHasher(4)
			hash, err := hasher.Hash("password123")
			Expect(err).NotTo(HaveOccurred())

			first, err := auth.NewUser("Alice", "alice@example.com", hash)
			Expect(err).NotTo(HaveOccurred())
			Expect(env.Users.Create(env.ctx, first)).To(Succeed())

			second, err := auth.NewUser("Other", "Alice@Example.Com", hash)
			Expect(err).NotTo(HaveOccurred())
			Expect(env.Users.Create(env.ctx, second)).To(MatchError(auth.ErrDuplicateEmail))
		})
	})

	Describe("ListUsers", func() {
		It("returns users in creation order", func() {
			for _, name := range []string{"Alice", "Bob", "Carol"} {
				_, _, err := svc.Signup(env.ctx, auth.SignupInput{
					Name:     name,
					Email:    name + "@example.com",
					Password: "password123",
				})
				Expect(err).NotTo(HaveOccurred())
			}

			users, err := svc.ListUsers(env.ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(3))
			Expect(users[0].Name).To(Equal("Alice"))
			Expect(users[1].Name).To(Equal("Bob"))
			Expect(users[2].Name).To(Equal("Carol"))
		})
	})
})
