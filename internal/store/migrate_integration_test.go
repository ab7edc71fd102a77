// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

//go:build integration

package store_test

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/pollwise/pollwise/internal/store"
)

var _ = Describe("Migrator", Ordered, func() {
	var migrator *store.Migrator

	BeforeAll(func() {
		var err error
		migrator, err = store.NewMigrator(databaseURL)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { Expect(migrator.Close()).To(Succeed()) })
		Expect(migrator.Down()).To(Succeed())
	})

	It("starts at version zero with everything pending", func() {
		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
		Expect(dirty).To(BeFalse())

		pending, err := migrator.PendingMigrations()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(Equal([]uint{1, 2, 3}))
	})

	It("applies every migration and is idempotent", func() {
		Expect(migrator.Up()).To(Succeed())
		Expect(migrator.Up()).To(Succeed())

		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(3)))
		Expect(dirty).To(BeFalse())

		pending, err := migrator.PendingMigrations()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(BeEmpty())
	})

	It("rolls everything back", func() {
		Expect(migrator.Down()).To(Succeed())
		version, _, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
	})

	It("forces a version without running migrations", func() {
		Expect(migrator.Up()).To(Succeed())
		Expect(migrator.Force(2)).To(Succeed())
		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(2)))
		Expect(dirty).To(BeFalse())
		Expect(migrator.Force(3)).To(Succeed())
	})
})

var _ = Describe("ErrorLogRepository", Ordered, func() {
	var (
		ctx  context.Context
		pool *pgxpool.Pool
		repo *store.ErrorLogRepository
	)

	BeforeAll(func() {
		ctx = context.Background()

		migrator, err := store.NewMigrator(databaseURL)
		Expect(err).NotTo(HaveOccurred())
		Expect(migrator.Up()).To(Succeed())
		Expect(migrator.Close()).To(Succeed())

		pool, err = store.NewPool(ctx, databaseURL, store.DefaultRetryPolicy)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(pool.Close)

		repo = store.NewErrorLogRepository(pool)
	})

	It("stores and lists stack traces newest first", func() {
		Expect(repo.LogError(ctx, "first stack")).To(Succeed())
		Expect(repo.LogError(ctx, strings.Repeat("deep frame\n", 200))).To(Succeed())

		entries, err := repo.Recent(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Stack).To(HavePrefix("deep frame"))
		Expect(entries[1].Stack).To(Equal("first stack"))
	})

	It("honours the limit", func() {
		entries, err := repo.Recent(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
	})
})
