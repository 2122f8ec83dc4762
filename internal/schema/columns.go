package schema

// Entrant and career field names.
const (
	FieldTabNo        = "Tab_No"
	FieldForm         = "FF_Form"
	FieldBP           = "BP"
	FieldAgeSex       = "A/S"
	FieldWeight       = "WT (kg)"
	FieldTrainer      = "Trainer"
	FieldSire         = "Sire"
	FieldDam          = "Dam"
	FieldOwner        = "Owner"
	FieldCareer       = "Career_W-P-S"
	FieldPrizeMoney   = "Prize_Money"
	FieldRTC          = "RTC"
	FieldDLR          = "DLR"
	FieldDLW          = "DLW"
	FieldCarPM        = "Car_PM/s (G1)"
	Field12mPM        = "12m_PM/s (G2)"
	FieldAPI          = "API (G3)"
	FieldRTCPerKm     = "RTC/km"
	FieldTrainerWin   = "Trainer_Win_%"
	FieldTrainerPlace = "Trainer_Place_%"
	FieldRacedDistWPS = "Raced_Dist_W-P-S"
	FieldCourseWPS    = "Crs_W-P-S"
	FieldDistWPS      = "Dist_W-P-S"
	FieldFirstUpWPS   = "FU_W-P-S"
	FieldSecondUpWPS  = "2U_W-P-S"
	FieldDOD          = "DOD"
	FieldParseStamp   = "Parse_Timestamp"
	FieldAvgSpeed     = "Avg_Speed_km/h"
	FieldMinSpeed     = "Min_Speed_km/h"
	FieldMaxSpeed     = "Max_Speed_km/h"
	FieldHistCount    = "Hist_Count"
	FieldColour       = "Colour"
	FieldSex          = "Sex"
	FieldAge          = "Age"
	FieldCareerWins   = "Career_Wins"
	FieldCareerPlaces = "Career_Places"
	FieldCareerStarts = "Career_Starts"
	FieldRawWeight    = "Weight"
	FieldRawWeightKg  = "Weight_kg"
	FieldRawWeightWt  = "Wt"
	FieldEntryOdds    = "Odds"
)

// History run field names.
const (
	FieldHistDate           = "Hist_Date"
	FieldHistTrack          = "Hist_Track"
	FieldHistDistance       = "Hist_Distance"
	FieldHistFinishPos      = "Hist_Finish_Pos"
	FieldHistMargin         = "Hist_Margin_L"
	FieldHistRaceTime       = "Hist_Race_Time"
	FieldHistSecTime        = "Hist_Sec_Time"
	FieldHistSecTimeAdj     = "Hist_Sec_Time_Adj"
	FieldHistSpeed          = "Hist_Speed_km/h"
	FieldHistSOT            = "Hist_SOT"
	FieldHistRST            = "Hist_RST"
	FieldHistBP             = "Hist_BP"
	FieldHistOdds           = "Hist_Odds"
	FieldHistAPI            = "Hist_API"
	FieldHistPrizeWon       = "Hist_Prize_Won"
	FieldHistWinner         = "Hist_Winner"
	FieldHistSecond         = "Hist_2nd_Place"
	FieldHistThird          = "Hist_3rd_Place"
	FieldHistSettledTurn    = "Hist_Settled_Turn"
	FieldHistOngoingWins    = "Hist_Ongoing_Winners"
	FieldHistTrackDirection = "Hist_Track_Direction"
)

var identityColumns = []Column{
	{"Race_Date", KindDate},
	{"Track", KindText},
	{"Race_No", KindInteger},
	{"Dog_Name", KindName},
	{"Box", KindInteger},
}

var snapshotColumns = []Column{
	{FieldHistDate, KindDate},
	{FieldHistTrack, KindText},
	{FieldHistDistance, KindInteger},
	{FieldHistFinishPos, KindInteger},
	{FieldHistMargin, KindDecimal},
	{FieldHistRaceTime, KindText},
	{FieldHistSecTime, KindDecimal},
	{FieldHistSecTimeAdj, KindDecimal},
	{FieldHistSpeed, KindDecimal},
	{FieldHistSOT, KindText},
	{FieldHistRST, KindText},
	{FieldHistBP, KindText},
	{FieldHistOdds, KindOdds},
	{FieldHistAPI, KindDecimal},
	{FieldHistPrizeWon, KindDecimal},
	{FieldHistWinner, KindName},
	{FieldHistSecond, KindName},
	{FieldHistThird, KindName},
	{FieldHistSettledTurn, KindText},
	{FieldHistOngoingWins, KindText},
	{FieldHistTrackDirection, KindText},
}

// SnapshotFields returns the per-run fields injected from the most recent history row.
func SnapshotFields() []string {
	names := make([]string, len(snapshotColumns))
	for i, c := range snapshotColumns {
		names[i] = c.Name
	}
	return names
}

// Summary returns the locked 60-column summary schema: identity, race conditions,
// entrant and career fields, speed aggregates, the most recent run, metadata.
func Summary() *Schema {
	cols := make([]Column, 0, 60)
	cols = append(cols, identityColumns...)
	cols = append(cols,
		Column{"Distance_m", KindInteger},
		Column{"Race_Grade", KindText},
		Column{FieldTabNo, KindInteger},
		Column{FieldForm, KindText},
		Column{FieldBP, KindText},
		Column{FieldAgeSex, KindText},
		Column{FieldWeight, KindDecimal},
		Column{FieldTrainer, KindName},
		Column{FieldSire, KindName},
		Column{FieldDam, KindName},
		Column{FieldOwner, KindName},
		Column{FieldCareer, KindText},
		Column{FieldPrizeMoney, KindDecimal},
		Column{FieldRTC, KindText},
		Column{FieldDLR, KindInteger},
		Column{FieldDLW, KindInteger},
		Column{FieldCarPM, KindDecimal},
		Column{Field12mPM, KindDecimal},
		Column{FieldAPI, KindDecimal},
		Column{FieldRTCPerKm, KindDecimal},
		Column{FieldTrainerWin, KindDecimal},
		Column{FieldTrainerPlace, KindDecimal},
		Column{FieldRacedDistWPS, KindText},
		Column{FieldCourseWPS, KindText},
		Column{FieldDistWPS, KindText},
		Column{FieldFirstUpWPS, KindText},
		Column{FieldSecondUpWPS, KindText},
		Column{FieldDOD, KindText},
		Column{FieldAvgSpeed, KindDecimal},
		Column{FieldMinSpeed, KindDecimal},
		Column{FieldMaxSpeed, KindDecimal},
		Column{FieldHistCount, KindInteger},
	)
	cols = append(cols, snapshotColumns...)
	cols = append(cols,
		Column{"Data_Source_File", KindText},
		Column{FieldParseStamp, KindText},
	)
	return New("summary", cols...)
}

// History returns the history schema: the current meeting identity, the run fields
// and the source file.
func History() *Schema {
	cols := []Column{
		{"Track", KindText},
		{"Race_Date", KindDate},
		{"Race_No", KindInteger},
		{"Dog_Name", KindName},
		{"Box", KindInteger},
	}
	cols = append(cols, snapshotColumns...)
	cols = append(cols, Column{"Data_Source_File", KindText})
	return New("history", cols...)
}

// Entry returns the columns the normalizer understands on raw entry records:
// the summary columns plus the raw inputs of composite fields and meeting extras.
func Entry() *Schema {
	cols := make([]Column, 0, 72)
	sum := Summary()
	cols = append(cols, sum.columns...)
	cols = append(cols,
		Column{"Race_Time", KindClock},
		Column{"Race_Name", KindText},
		Column{FieldColour, KindText},
		Column{FieldSex, KindText},
		Column{FieldAge, KindInteger},
		Column{FieldCareerWins, KindInteger},
		Column{FieldCareerPlaces, KindInteger},
		Column{FieldCareerStarts, KindInteger},
		Column{FieldRawWeight, KindDecimal},
		Column{FieldRawWeightKg, KindDecimal},
		Column{FieldRawWeightWt, KindDecimal},
		Column{FieldEntryOdds, KindOdds},
	)
	return New("entry", cols...)
}
