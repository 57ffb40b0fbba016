package constraint

import (
	"time"

	"github.com/leapstack-labs/nemcon/internal/mms"
	"github.com/leapstack-labs/nemcon/internal/mms/mmstest"
)

var (
	june2022  = mms.Period{Year: 2022, Month: time.June}
	may2022   = mms.Period{Year: 2022, Month: time.May}
	april2022 = mms.Period{Year: 2022, Month: time.April}
)

// Column layouts as published, envelope columns already stripped.
var (
	genConCols = []string{"GENCONID", "EFFECTIVEDATE", "VERSIONNO", "CONSTRAINTTYPE", "CONSTRAINTVALUE", "DESCRIPTION", "STATUS", "GENERICCONSTRAINTWEIGHT"}
	eqDescCols = []string{"EQUATIONID", "DESCRIPTION", "LASTCHANGED", "IMPACT", "SOURCE"}
	cpCols     = []string{"CONNECTIONPOINTID", "EFFECTIVEDATE", "VERSIONNO", "GENCONID", "FACTOR", "BIDTYPE", "LASTCHANGED"}
	icCols     = []string{"INTERCONNECTORID", "EFFECTIVEDATE", "VERSIONNO", "GENCONID", "FACTOR", "LASTCHANGED"}
	regionCols = []string{"REGIONID", "EFFECTIVEDATE", "VERSIONNO", "GENCONID", "FACTOR", "LASTCHANGED", "BIDTYPE"}
	duCols     = []string{"DUID", "EFFECTIVEDATE", "VERSIONNO", "CONNECTIONPOINTID"}
	rhsCols    = []string{"GENCONID", "EFFECTIVEDATE", "VERSIONNO", "SCOPE", "TERMID", "GROUPTERMID", "SPD_ID", "SPD_TYPE", "FACTOR", "OPERATION", "DEFAULTVALUE"}
	eqRHSCols  = []string{"EQUATIONID", "EFFECTIVEDATE", "VERSIONNO", "TERMID", "GROUPTERMID", "SPD_ID", "SPD_TYPE", "FACTOR", "OPERATION", "DEFAULTVALUE"}
	emsCols    = []string{"SPD_ID", "SPD_TYPE", "DESCRIPTION", "GROUPING_ID"}
)

func genConRow(id, description string) []string {
	return []string{id, "2022/06/01 00:00:00", "1", "LE", "0", description, "", "35"}
}

func eqDescRow(id, description string) []string {
	return []string{id, description, "2022/01/01 00:00:00", "", "AEMO"}
}

func cpRow(genConID, connectionPointID, factor, bidType string) []string {
	return []string{connectionPointID, "2022/06/01 00:00:00", "1", genConID, factor, bidType, ""}
}

func icRow(genConID, interconnectorID, factor string) []string {
	return []string{interconnectorID, "2022/06/01 00:00:00", "1", genConID, factor, ""}
}

func regionRow(genConID, regionID, factor string) []string {
	return []string{regionID, "2022/06/01 00:00:00", "1", genConID, factor, "", "ENERGY"}
}

func duRow(duid, connectionPointID string) []string {
	return []string{duid, "2022/01/01 00:00:00", "1", connectionPointID}
}

func rhsRow(genConID, termID, spdID, spdType, factor, operation string) []string {
	return []string{genConID, "2022/06/01 00:00:00", "1", "DS", termID, "", spdID, spdType, factor, operation, ""}
}

func eqRHSRow(equationID, termID, spdID, spdType, factor, operation string) []string {
	return []string{equationID, "2022/01/01 00:00:00", "1", termID, "", spdID, spdType, factor, operation, ""}
}

func emsRow(spdID, spdType, description string) []string {
	return []string{spdID, spdType, description, ""}
}

// emptyLHS registers empty LHS tables for a period.
func emptyLHS(src *mmstest.Source, p mms.Period) *mmstest.Source {
	return src.
		Add(p, mms.TableConnectionPointConstraint, cpCols).
		Add(p, mms.TableInterconnectorConstraint, icCols).
		Add(p, mms.TableRegionConstraint, regionCols)
}

func tablesFetched(src *mmstest.Source) []string {
	var out []string
	for _, c := range src.Calls() {
		out = append(out, c.Table)
	}
	return out
}
