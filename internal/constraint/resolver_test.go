package constraint

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nemcon/internal/mms"
	"github.com/leapstack-labs/nemcon/internal/mms/mmstest"
)

func TestResolveLHS_RegionTerm(t *testing.T) {
	src := mmstest.NewSource().
		Add(june2022, mms.TableConnectionPointConstraint, cpCols, cpRow("OTHER", "VLYP1", "1", "ENERGY")).
		Add(june2022, mms.TableInterconnectorConstraint, icCols, icRow("OTHER", "V-SA", "1")).
		Add(june2022, mms.TableRegionConstraint, regionCols,
			regionRow("OTHER", "NSW1", "1"),
			regionRow("V^^S_NIL_MINLOAD", "VIC1", "1"))

	terms, err := NewResolver(src, nil).ResolveLHS(context.Background(), "V^^S_NIL_MINLOAD", june2022)
	require.NoError(t, err)

	assert.Equal(t, []LHSTerm{
		{Kind: KindRegion, ID: "VIC1", DUID: "VIC1", Factor: 1, BidType: NotApplicable},
	}, terms)
	assert.NotContains(t, tablesFetched(src), mms.TableDUDetail, "no connection point matched")
}

func TestResolveLHS_OrderAndDUIDLookup(t *testing.T) {
	const id = "N>>N-NIL_3"
	src := mmstest.NewSource().
		Add(june2022, mms.TableConnectionPointConstraint, cpCols,
			cpRow(id, "NBAY1", "-1", "ENERGY"),
			cpRow("OTHER", "NXXX", "1", "ENERGY"),
			cpRow(id, "NORPHAN", "0.5", "LOWER5MIN")).
		Add(june2022, mms.TableInterconnectorConstraint, icCols,
			icRow(id, "N-Q-MNSP1", "0.27"),
			icRow(id, "NSW1-QLD1", "1")).
		Add(june2022, mms.TableRegionConstraint, regionCols,
			regionRow(id, "NSW1", "0.1")).
		Add(june2022, mms.TableDUDetail, duCols,
			duRow("BAYSW1", "NBAY1"),
			duRow("BAYSW2", "NBAY1"))

	terms, err := NewResolver(src, nil).ResolveLHS(context.Background(), id, june2022)
	require.NoError(t, err)

	want := []LHSTerm{
		{Kind: KindConnectionPoint, ID: "NBAY1", DUID: "BAYSW1", Factor: -1, BidType: "ENERGY"},
		{Kind: KindConnectionPoint, ID: "NORPHAN", DUID: DUIDNotFound, Factor: 0.5, BidType: "LOWER5MIN"},
		{Kind: KindInterconnector, ID: "N-Q-MNSP1", DUID: "N-Q-MNSP1", Factor: 0.27, BidType: NotApplicable},
		{Kind: KindInterconnector, ID: "NSW1-QLD1", DUID: "NSW1-QLD1", Factor: 1, BidType: NotApplicable},
		{Kind: KindRegion, ID: "NSW1", DUID: "NSW1", Factor: 0.1, BidType: NotApplicable},
	}
	if diff := cmp.Diff(want, terms); diff != "" {
		t.Errorf("ResolveLHS() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveLHS_UnknownConstraint(t *testing.T) {
	src := emptyLHS(mmstest.NewSource(), june2022)

	terms, err := NewResolver(src, nil).ResolveLHS(context.Background(), "NOPE", june2022)
	require.NoError(t, err)
	assert.NotNil(t, terms)
	assert.Empty(t, terms)
}

func TestResolveLHS_MissingTable(t *testing.T) {
	src := mmstest.NewSource().
		Add(june2022, mms.TableConnectionPointConstraint, cpCols, cpRow("C1", "NBAY1", "1", "ENERGY"))

	_, err := NewResolver(src, nil).ResolveLHS(context.Background(), "C1", june2022)
	require.Error(t, err)
	assert.True(t, mms.IsNotFound(err))

	var ae *mms.ArchiveError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, mms.TableDUDetail, ae.Table)
}

func TestResolveLHS_BadFactor(t *testing.T) {
	src := mmstest.NewSource().
		Add(june2022, mms.TableConnectionPointConstraint, cpCols, cpRow("C1", "NBAY1", "lots", "ENERGY"))

	_, err := NewResolver(src, nil).ResolveLHS(context.Background(), "C1", june2022)
	var de *mms.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "FACTOR", de.Column)
}

func TestResolveRHS_SortedByTermID(t *testing.T) {
	const id = "Q>>NIL_855_871"
	rows := [][]string{
		rhsRow(id, "3", "Q_LOAD", "A", "1", "ADD"),
		rhsRow(id, "1", "Q_GEN", "A", "-1", ""),
		rhsRow(id, "10", "Q_LIMIT", "S", "0.5", "MUL"),
		rhsRow(id, "2", "X_Q_EQ", "X", "1", "ADD"),
	}
	permutations := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{1, 3, 0, 2},
	}

	for _, perm := range permutations {
		ordered := make([][]string, 0, len(rows))
		for _, i := range perm {
			ordered = append(ordered, rows[i])
		}
		src := mmstest.NewSource().
			Add(june2022, mms.TableGenericConstraintRHS, rhsCols, ordered...).
			Add(june2022, mms.TableEMSMaster, emsCols)

		terms, err := NewResolver(src, nil).ResolveRHS(context.Background(), id, june2022, RegistryConstraintRHS)
		require.NoError(t, err)

		var ids []int
		for _, term := range terms {
			ids = append(ids, term.TermID)
		}
		assert.Equal(t, []int{1, 2, 3, 10}, ids, "permutation %v", perm)
	}
}

func TestResolveRHS_Descriptions(t *testing.T) {
	const id = "V>>V_NIL_2"
	src := mmstest.NewSource().
		Add(june2022, mms.TableGenericConstraintRHS, rhsCols,
			rhsRow(id, "1", "VIC_MW", "A", "1", "ADD"),
			rhsRow(id, "2", "VIC_UNKNOWN", "S", "1", "ADD"),
			rhsRow(id, "3", "X_VIC_EQ", "X", "1", "ADD"),
			rhsRow(id, "4", "CONST", "C", "1", "nan"),
			rhsRow("OTHER", "5", "VIC_MW", "A", "1", "ADD")).
		Add(june2022, mms.TableEMSMaster, emsCols,
			emsRow("VIC_MW", "A", "Victorian demand"),
			emsRow("VIC_MW", "A", "duplicate entry"))

	terms, err := NewResolver(src, nil).ResolveRHS(context.Background(), id, june2022, RegistryConstraintRHS)
	require.NoError(t, err)

	want := []RHSTerm{
		{TermID: 1, SPDID: "VIC_MW", SPDType: "A", Description: "Victorian demand", Factor: 1, Operation: "ADD"},
		{TermID: 2, SPDID: "VIC_UNKNOWN", SPDType: "S", Description: Placeholder, Factor: 1, Operation: "ADD"},
		{TermID: 3, SPDID: "X_VIC_EQ", SPDType: "X", Description: GenericRHSFunction, Factor: 1, Operation: "ADD"},
		{TermID: 4, SPDID: "CONST", SPDType: "C", Description: Placeholder, Factor: 1, Operation: Placeholder},
	}
	if diff := cmp.Diff(want, terms); diff != "" {
		t.Errorf("ResolveRHS() mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, terms[2].IsGeneric())
}

func TestResolveRHS_GenericRegistry(t *testing.T) {
	const id = "X_VIC_EQ"
	src := mmstest.NewSource().
		Add(april2022, mms.TableGenericEquationRHS, eqRHSCols,
			eqRHSRow(id, "2", "X_NESTED", "X", "1", "ADD"),
			eqRHSRow(id, "1", "VIC_MW", "A", "2", "")).
		Add(april2022, mms.TableEMSMaster, emsCols, emsRow("VIC_MW", "A", "Victorian demand"))

	terms, err := NewResolver(src, nil).ResolveRHS(context.Background(), id, april2022, RegistryGenericEquationRHS)
	require.NoError(t, err)

	want := []RHSTerm{
		{TermID: 1, SPDID: "VIC_MW", SPDType: "A", Description: "Victorian demand", Factor: 2, Operation: Placeholder},
		{TermID: 2, SPDID: "X_NESTED", SPDType: "X", Description: Placeholder, Factor: 1, Operation: "ADD"},
	}
	if diff := cmp.Diff(want, terms); diff != "" {
		t.Errorf("ResolveRHS() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveRHS_UnknownIDSkipsSCADALookup(t *testing.T) {
	src := mmstest.NewSource().
		Add(june2022, mms.TableGenericConstraintRHS, rhsCols, rhsRow("OTHER", "1", "VIC_MW", "A", "1", "ADD"))

	terms, err := NewResolver(src, nil).ResolveRHS(context.Background(), "NOPE", june2022, RegistryConstraintRHS)
	require.NoError(t, err)
	assert.NotNil(t, terms)
	assert.Empty(t, terms)
	assert.Equal(t, []string{mms.TableGenericConstraintRHS}, tablesFetched(src))
}

func TestResolveRHS_StableForEqualTermIDs(t *testing.T) {
	const id = "C1"
	src := mmstest.NewSource().
		Add(june2022, mms.TableGenericConstraintRHS, rhsCols,
			rhsRow(id, "1", "FIRST", "C", "1", "ADD"),
			rhsRow(id, "1", "SECOND", "C", "1", "ADD")).
		Add(june2022, mms.TableEMSMaster, emsCols)

	terms, err := NewResolver(src, nil).ResolveRHS(context.Background(), id, june2022, RegistryConstraintRHS)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "FIRST", terms[0].SPDID)
	assert.Equal(t, "SECOND", terms[1].SPDID)
}

func TestResolveRHS_TermIDWrittenAsFloat(t *testing.T) {
	const id = "C1"
	src := mmstest.NewSource().
		Add(june2022, mms.TableGenericConstraintRHS, rhsCols, rhsRow(id, "7.0", "CONST", "C", "1", "ADD")).
		Add(june2022, mms.TableEMSMaster, emsCols)

	terms, err := NewResolver(src, nil).ResolveRHS(context.Background(), id, june2022, RegistryConstraintRHS)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, 7, terms[0].TermID)
}

func TestResolveRHS_UnknownRegistry(t *testing.T) {
	_, err := NewResolver(mmstest.NewSource(), nil).ResolveRHS(context.Background(), "C1", june2022, Registry(9))
	assert.ErrorContains(t, err, "unknown RHS registry")
}
