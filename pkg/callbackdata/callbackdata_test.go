package callbackdata

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/gramiojs/callback-data/pkg/compact"
	"github.com/gramiojs/callback-data/pkg/metrics"
	"github.com/gramiojs/callback-data/pkg/schema"
	"github.com/gramiojs/callback-data/pkg/util/merr"
)

type CallbackDataSuite struct {
	suite.Suite

	full *CallbackData
}

func (s *CallbackDataSuite) SetupSuite() {
	s.full = MustNew("full", schema.NewBuilder().
		String("name").
		Number("age").
		Boolean("isAdmin").
		Enum("role", []string{"user", "moderator", "admin"}, schema.Optional()).
		MustBuild())
}

func (s *CallbackDataSuite) TestIdentifiers() {
	s.Equal("UubYq4", s.full.ID())
	s.Equal("e9dc92", s.full.LegacyID())
	s.Equal("full", s.full.Name())

	cd := MustNew("legacy", schema.NewBuilder().MustBuild())
	s.Equal("mzMEbt", cd.ID())
	s.Equal("228c70", cd.LegacyID())

	ids := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		cd := MustNew(fmt.Sprintf("test-%d", i), schema.NewBuilder().MustBuild())
		s.Len(cd.ID(), IDLen)
		ids[cd.ID()] = struct{}{}
	}
	s.Len(ids, 50)
}

func (s *CallbackDataSuite) TestNewValidation() {
	sc := schema.NewBuilder().MustBuild()
	_, err := New("", sc)
	s.Error(err)
	_, err = New("x", nil)
	s.Error(err)
	_, err = New("x", sc, WithSerializer(nil))
	s.Error(err)
	s.Panics(func() { MustNew("", sc) })
}

func (s *CallbackDataSuite) TestPackUnpack() {
	values := compact.Values{"name": "Alice", "age": 30, "isAdmin": true, "role": "admin"}

	before := testutil.ToFloat64(metrics.PackTotal.WithLabelValues("full", metrics.SuccessLabel))
	packed, err := s.full.Pack(values)
	s.Require().NoError(err)
	s.Equal("UubYq4Alice;u;1;1;2", packed)
	s.Equal(before+1, testutil.ToFloat64(metrics.PackTotal.WithLabelValues("full", metrics.SuccessLabel)))

	s.True(s.full.Matches(packed))
	unpacked, err := s.full.Unpack(packed)
	s.Require().NoError(err)
	s.Equal(compact.Values{"name": "Alice", "age": float64(30), "isAdmin": true, "role": "admin"}, unpacked)
}

func (s *CallbackDataSuite) TestPackFloat() {
	cd := MustNew("numbers", schema.NewBuilder().Number("float").MustBuild())
	a, b := 0.1, 0.2
	packed, err := cd.Pack(compact.Values{"float": a + b})
	s.Require().NoError(err)
	s.Equal("E4wvhC0.30000000000000004", packed)
	s.Len(packed, 25)

	unpacked, err := cd.Unpack(packed)
	s.Require().NoError(err)
	s.Equal(a+b, unpacked["float"])
}

func (s *CallbackDataSuite) TestPackError() {
	before := testutil.ToFloat64(metrics.PackTotal.WithLabelValues("full", metrics.FailLabel))
	_, err := s.full.Pack(compact.Values{"name": "Alice"})
	s.ErrorIs(err, merr.ErrMissingRequiredField)
	s.Equal(before+1, testutil.ToFloat64(metrics.PackTotal.WithLabelValues("full", metrics.FailLabel)))
}

func (s *CallbackDataSuite) TestMatchesIsAnchored() {
	packed, err := s.full.Pack(compact.Values{"name": "Bob", "age": 1, "isAdmin": false})
	s.Require().NoError(err)

	s.False(s.full.Matches("xx" + packed))
	s.False(s.full.Matches(`wrong|{"value":1}`))
	s.False(s.full.Matches(s.full.LegacyID()))
	s.True(s.full.Matches(s.full.LegacyID() + `|{}`))
	s.False(s.full.Matches(""))

	re := s.full.Regexp()
	s.True(re.MatchString(packed))
	s.Equal("Bob;1;0;0", re.FindStringSubmatch(packed)[1])
	s.True(re.MatchString(s.full.LegacyID() + `|{"a":"x\ny"}`))
	s.False(re.MatchString("xx" + packed))
}

func (s *CallbackDataSuite) TestUnpackMismatch() {
	_, err := s.full.Unpack(`wrong|{"value":1}`)
	s.ErrorIs(err, merr.ErrCallbackDataMismatch)
	s.Contains(err.Error(), "full")

	_, err = s.full.Unpack("UubYq4Alice;u")
	s.ErrorIs(err, merr.ErrMalformedPayload)
}

func (s *CallbackDataSuite) TestUnpackLegacy() {
	cd := MustNew("legacy", schema.NewBuilder().String("name").Number("age").MustBuild())

	unpacked, err := cd.Unpack(`228c70|{"name":"Alice","age":30}`)
	s.Require().NoError(err)
	s.Equal(compact.Values{"name": "Alice", "age": float64(30)}, unpacked)

	before := testutil.ToFloat64(metrics.UnpackTotal.WithLabelValues("legacy", metrics.LegacyFormatLabel, metrics.FailLabel))
	_, err = cd.Unpack(`228c70|{"name":"Alice"}`)
	s.ErrorIs(err, merr.ErrMissingRequiredField)
	_, err = cd.Unpack(`228c70|{"name":"Alice","age":"30"}`)
	s.ErrorIs(err, merr.ErrInvalidFieldValue)
	_, err = cd.Unpack(`228c70|{"name":`)
	s.ErrorIs(err, merr.ErrMalformedPayload)
	s.Equal(before+3, testutil.ToFloat64(metrics.UnpackTotal.WithLabelValues("legacy", metrics.LegacyFormatLabel, metrics.FailLabel)))
}

func (s *CallbackDataSuite) TestLegacyRoundTrip() {
	cd := MustNew("profile", schema.NewBuilder().
		String("bio").
		UUID("ref").
		String("theme", schema.Default("dark")).
		Enum("tier", []string{"free", "pro"}, schema.Optional()).
		MustBuild())

	values := compact.Values{
		"bio":     "a|b;c",
		"ref":     "B06DACF6-5027-402E-9533-087A4761C4FA",
		"tier":    "pro",
		"ignored": 1,
	}
	packed, err := cd.PackLegacy(values)
	s.Require().NoError(err)
	s.Equal(`7d9748|{"bio":"a|b;c","ref":"b06dacf6-5027-402e-9533-087a4761c4fa","tier":"pro"}`, packed)
	s.True(cd.Matches(packed))

	unpacked, err := cd.Unpack(packed)
	s.Require().NoError(err)
	s.Equal(compact.Values{
		"bio":   "a|b;c",
		"ref":   "b06dacf6-5027-402e-9533-087a4761c4fa",
		"theme": "dark",
		"tier":  "pro",
	}, unpacked)

	_, err = cd.PackLegacy(compact.Values{"bio": "x"})
	s.ErrorIs(err, merr.ErrMissingRequiredField)
	_, err = cd.PackLegacy(compact.Values{"bio": "x", "ref": "nope"})
	s.ErrorIs(err, merr.ErrInvalidFieldValue)
}

func TestCallbackData(t *testing.T) {
	suite.Run(t, new(CallbackDataSuite))
}

func TestComputeID(t *testing.T) {
	cases := map[string][2]string{
		"user":    {"Et6pb-", "ee11cb"},
		"example": {"w0mcJy", "1a79a4"},
		"orders":  {"llhAOB", "12c500"},
		"":        {"2jmj7l", "d41d8c"},
	}
	for name, want := range cases {
		assert.Equal(t, want[0], computeID(name), name)
		assert.Equal(t, want[1], computeLegacyID(name), name)
	}

	cd, err := New("user", schema.NewBuilder().MustBuild())
	require.NoError(t, err)
	assert.Equal(t, "Et6pb-", cd.ID())
}
