package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kitaerp/glposting/internal/apperrors"
	"github.com/kitaerp/glposting/internal/core/domain"
	portssvc "github.com/kitaerp/glposting/internal/core/ports/services"
	"github.com/kitaerp/glposting/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountReader ---
type MockAccountReader struct {
	mock.Mock
}

func (m *MockAccountReader) GetAccountsInfo(ctx context.Context, accountIDs []string) (map[string]domain.AccountSnapshot, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.AccountSnapshot), args.Error(1)
}

func (m *MockAccountReader) GetAllAccountsInfo(ctx context.Context) ([]domain.AccountSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountSnapshot), args.Error(1)
}

type PostingServiceTestSuite struct {
	suite.Suite
	accounts *MockAccountReader
	svc      portssvc.PostingSvcFacade
	ctx      context.Context

	cash    domain.AccountSnapshot
	sales   domain.AccountSnapshot
	control domain.AccountSnapshot
	all     []domain.AccountSnapshot
}

func (s *PostingServiceTestSuite) SetupTest() {
	s.accounts = new(MockAccountReader)
	s.svc = services.NewPostingService(
		s.accounts,
		services.NewSoDService(nil),
		services.NewCoAService(),
		services.NewFxService(nil),
		services.WithBaseCurrency("MYR"),
	)
	s.ctx = context.Background()

	s.control = domain.AccountSnapshot{AccountID: "acc-root", Code: "1000", Name: "Current Assets", AccountType: domain.Asset, CurrencyCode: "MYR", IsActive: true, HierarchyLevel: 0}
	s.cash = domain.AccountSnapshot{AccountID: "acc-cash", Code: "1010", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "MYR", IsActive: true, HierarchyLevel: 1, ParentAccountID: strPtr("acc-root")}
	s.sales = domain.AccountSnapshot{AccountID: "acc-sales", Code: "4000", Name: "Sales", AccountType: domain.Revenue, CurrencyCode: "MYR", IsActive: true, HierarchyLevel: 1, ParentAccountID: strPtr("acc-root")}
	s.all = []domain.AccountSnapshot{s.control, s.cash, s.sales}
}

func (s *PostingServiceTestSuite) expectSnapshots(ids []string, snapshots map[string]domain.AccountSnapshot) {
	s.accounts.On("GetAccountsInfo", mock.Anything, ids).Return(snapshots, nil)
	s.accounts.On("GetAllAccountsInfo", mock.Anything).Return(s.all, nil)
}

func (s *PostingServiceTestSuite) baseRequest(role domain.Role) domain.JournalPostingRequest {
	return domain.JournalPostingRequest{
		JournalNumber: "JV-2026-0001",
		Description:   "Cash sale",
		Date:          time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		CurrencyCode:  "MYR",
		Lines: []domain.JournalLine{
			{AccountID: "acc-cash", Debit: decPtr("118.00")},
			{AccountID: "acc-sales", Credit: decPtr("118.00")},
		},
		Actor: actorWithRole(role),
	}
}

func (s *PostingServiceTestSuite) TestPostJournal_Success_ManagerRequiresApproval() {
	req := s.baseRequest(domain.RoleManager)
	s.expectSnapshots([]string{"acc-cash", "acc-sales"}, map[string]domain.AccountSnapshot{
		"acc-cash":  s.cash,
		"acc-sales": s.sales,
	})

	result, err := s.svc.PostJournal(s.ctx, req)
	s.Require().NoError(err)
	s.True(result.Validated)
	s.True(result.TotalDebit.Equal(decimal.RequireFromString("118.00")))
	s.True(result.TotalCredit.Equal(decimal.RequireFromString("118.00")))
	s.True(result.RequiresApproval)
	s.Contains(result.ApproverRoles, domain.RoleManager)
	s.Empty(result.Warnings)
	s.Nil(result.Fx, "same-currency journal needs no FX resolution")
	s.accounts.AssertExpectations(s.T())
}

func (s *PostingServiceTestSuite) TestPostJournal_ClerkRejectedBeforeAnyIO() {
	req := s.baseRequest(domain.RoleClerk)

	_, err := s.svc.PostJournal(s.ctx, req)
	s.Require().Error(err)
	s.Equal(apperrors.CodeSoDViolation, apperrors.CodeOf(err))
	s.accounts.AssertNotCalled(s.T(), "GetAccountsInfo", mock.Anything, mock.Anything)
}

func (s *PostingServiceTestSuite) TestPostJournal_EmptyJournal() {
	req := s.baseRequest(domain.RoleManager)
	req.Lines = nil

	_, err := s.svc.PostJournal(s.ctx, req)
	s.Require().Error(err)
	s.Equal(apperrors.CodeEmptyJournal, apperrors.CodeOf(err))
}

func (s *PostingServiceTestSuite) TestPostJournal_Unbalanced() {
	req := s.baseRequest(domain.RoleManager)
	req.Lines[1].Credit = decPtr("117.00")

	_, err := s.svc.PostJournal(s.ctx, req)
	s.Require().Error(err)
	s.Equal(apperrors.CodeUnbalancedJournal, apperrors.CodeOf(err))
	s.accounts.AssertNotCalled(s.T(), "GetAccountsInfo", mock.Anything, mock.Anything)
}

func (s *PostingServiceTestSuite) TestPostJournal_MissingAccount() {
	req := s.baseRequest(domain.RoleManager)
	s.expectSnapshots([]string{"acc-cash", "acc-sales"}, map[string]domain.AccountSnapshot{
		"acc-cash": s.cash,
	})

	_, err := s.svc.PostJournal(s.ctx, req)
	s.Require().Error(err)
	s.Equal(apperrors.CodeAccountsNotFound, apperrors.CodeOf(err))

	var pe *apperrors.PostingError
	s.Require().ErrorAs(err, &pe)
	s.ElementsMatch([]string{"acc-sales"}, pe.Details["missingAccountIDs"])
}

func (s *PostingServiceTestSuite) TestPostJournal_CurrencyMismatch() {
	usdSales := s.sales
	usdSales.CurrencyCode = "USD"
	req := s.baseRequest(domain.RoleManager)
	s.expectSnapshots([]string{"acc-cash", "acc-sales"}, map[string]domain.AccountSnapshot{
		"acc-cash":  s.cash,
		"acc-sales": usdSales,
	})

	_, err := s.svc.PostJournal(s.ctx, req)
	s.Require().Error(err)
	s.Equal(apperrors.CodeCurrencyMismatch, apperrors.CodeOf(err))
}

func (s *PostingServiceTestSuite) TestPostJournal_ControlAccountViolation() {
	req := s.baseRequest(domain.RoleManager)
	req.Lines[0].AccountID = "acc-root"
	s.expectSnapshots([]string{"acc-root", "acc-sales"}, map[string]domain.AccountSnapshot{
		"acc-root":  s.control,
		"acc-sales": s.sales,
	})

	_, err := s.svc.PostJournal(s.ctx, req)
	s.Require().Error(err)
	s.Equal(apperrors.CodeControlAccountViolation, apperrors.CodeOf(err))
}

func (s *PostingServiceTestSuite) TestPostJournal_NormalBalanceWarningsDoNotBlock() {
	req := s.baseRequest(domain.RoleManager)
	// Swap the sides: credit the asset, debit the revenue account.
	req.Lines = []domain.JournalLine{
		{AccountID: "acc-cash", Credit: decPtr("50")},
		{AccountID: "acc-sales", Debit: decPtr("50")},
	}
	s.expectSnapshots([]string{"acc-cash", "acc-sales"}, map[string]domain.AccountSnapshot{
		"acc-cash":  s.cash,
		"acc-sales": s.sales,
	})

	result, err := s.svc.PostJournal(s.ctx, req)
	s.Require().NoError(err)
	s.True(result.Validated)
	s.Len(result.Warnings, 2)
}

func (s *PostingServiceTestSuite) TestPostJournal_MultiCurrencyResolvesFx() {
	usdCash := s.cash
	usdCash.CurrencyCode = "USD"
	usdSales := s.sales
	usdSales.CurrencyCode = "USD"

	req := s.baseRequest(domain.RoleManager)
	req.CurrencyCode = "USD"
	s.expectSnapshots([]string{"acc-cash", "acc-sales"}, map[string]domain.AccountSnapshot{
		"acc-cash":  usdCash,
		"acc-sales": usdSales,
	})

	result, err := s.svc.PostJournal(s.ctx, req)
	s.Require().NoError(err)
	s.Require().NotNil(result.Fx)
	s.True(result.Fx.RequiresFxRate)
	s.Equal("MYR", result.Fx.BaseCurrency)
	s.Equal("USD", result.Fx.TransactionCurrency)
	s.True(result.Fx.ExchangeRate.Equal(decimal.NewFromInt(1)))
}

func (s *PostingServiceTestSuite) TestPostJournal_SnapshotFetchFailure() {
	req := s.baseRequest(domain.RoleManager)
	s.accounts.On("GetAccountsInfo", mock.Anything, []string{"acc-cash", "acc-sales"}).
		Return(nil, errors.New("connection refused"))

	_, err := s.svc.PostJournal(s.ctx, req)
	s.Require().Error(err)
	s.Equal(apperrors.Code(""), apperrors.CodeOf(err), "infrastructure failures are not posting errors")
}

func (s *PostingServiceTestSuite) TestPostJournal_Idempotent() {
	req := s.baseRequest(domain.RoleManager)
	s.expectSnapshots([]string{"acc-cash", "acc-sales"}, map[string]domain.AccountSnapshot{
		"acc-cash":  s.cash,
		"acc-sales": s.sales,
	})

	first, err := s.svc.PostJournal(s.ctx, req)
	s.Require().NoError(err)
	second, err := s.svc.PostJournal(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(first, second, "identical input and snapshots must yield identical results")
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
