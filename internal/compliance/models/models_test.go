package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "vigil/pkg/domain-errors"
)

type ModelsSuite struct {
	suite.Suite
}

func TestModelsSuite(t *testing.T) {
	suite.Run(t, new(ModelsSuite))
}

func (s *ModelsSuite) TestApplyReputation() {
	s.Run("positive adds the reward", func() {
		oracle := &Oracle{ID: "oracle-1", ReputationScore: 10}
		s.Require().NoError(oracle.ApplyReputation(true))
		s.Equal(uint64(15), oracle.ReputationScore)
	})

	s.Run("negative subtracts the penalty", func() {
		oracle := &Oracle{ID: "oracle-1", ReputationScore: 10}
		s.Require().NoError(oracle.ApplyReputation(false))
		s.Equal(uint64(8), oracle.ReputationScore)
	})

	s.Run("penalty at the floor succeeds", func() {
		oracle := &Oracle{ID: "oracle-1", ReputationScore: ReputationPenalty}
		s.Require().NoError(oracle.ApplyReputation(false))
		s.Zero(oracle.ReputationScore)
	})

	s.Run("underflow aborts without mutating", func() {
		oracle := &Oracle{ID: "oracle-1", ReputationScore: 1}
		err := oracle.ApplyReputation(false)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeArithmeticRange))
		s.Equal(uint64(1), oracle.ReputationScore)
	})
}

func (s *ModelsSuite) TestParseDigest() {
	s.Run("round trip", func() {
		input := strings.Repeat("ab", DigestSize)
		digest, err := ParseDigest(input)
		s.Require().NoError(err)
		s.Equal(input, digest.String())
	})

	s.Run("rejects non-hex input", func() {
		_, err := ParseDigest(strings.Repeat("zz", DigestSize))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidData))
	})

	s.Run("rejects wrong length", func() {
		_, err := ParseDigest("abcd")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidData))
	})
}

func (s *ModelsSuite) TestEnumValidity() {
	s.True(StatusCompliant.IsValid())
	s.True(StatusCritical.IsValid())
	s.False(ComplianceStatus("BOGUS").IsValid())

	s.True(RiskHigh.IsValid())
	s.False(RiskCategory("BOGUS").IsValid())
}
