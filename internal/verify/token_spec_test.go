package verify_test

import (
	"context"
	"math/big"

	"github.com/Mohsinsiddi/tokendeploy/internal/contract"
	"github.com/Mohsinsiddi/tokendeploy/internal/verify"
	"github.com/Mohsinsiddi/tokendeploy/test/fixtures"
	ginkgo "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("[Token contract]", func() {
	var (
		c       *fixtures.Chain
		factory *contract.Factory
	)

	ginkgo.BeforeEach(func() {
		t := ginkgo.GinkgoT()
		c = fixtures.NewChain(t)
		factory = tokenFactory(t, t.TempDir(), big.NewInt(fixtures.TokenSupply))
	})

	ginkgo.It("assigns the total supply of tokens to the owner", func() {
		report, err := verify.Check(context.Background(), c.Client, factory, c.Owner, c.ChainID, waitOpts)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(report.Owner).To(gomega.Equal(c.Owner.Address()))
		gomega.Expect(report.OwnerBalance.Cmp(report.TotalSupply)).To(gomega.BeZero())
		gomega.Expect(report.TotalSupply.Int64()).To(gomega.Equal(int64(fixtures.TokenSupply)))
	})

	ginkgo.It("leaves every other account empty", func() {
		report, err := verify.Check(context.Background(), c.Client, factory, c.Owner, c.ChainID, waitOpts)
		gomega.Expect(err).Should(gomega.BeNil())

		balance, err := report.Token.BalanceOf(context.Background(), fixtures.Stranger)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(balance.Sign()).To(gomega.BeZero())
	})
})
