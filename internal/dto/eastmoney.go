package dto

// Wire shapes for the Eastmoney fund endpoints.

// EastmoneyHistoryResponse is the envelope returned by the f10/lsjz endpoint.
type EastmoneyHistoryResponse struct {
	Data       EastmoneyHistoryData `json:"Data"`
	ErrCode    int                  `json:"ErrCode"`
	ErrMsg     string               `json:"ErrMsg"`
	TotalCount int                  `json:"TotalCount"`
}

type EastmoneyHistoryData struct {
	LSJZList []EastmoneyNavRow `json:"LSJZList"`
	FundType string            `json:"FundType"`
}

// EastmoneyNavRow is one published NAV row: FSRQ is the date, DWJZ the unit
// NAV, LJJZ the cumulative NAV, JZZZL the daily growth percentage. All values
// arrive as strings and may be empty on non-trading days.
type EastmoneyNavRow struct {
	FSRQ  string `json:"FSRQ"`
	DWJZ  string `json:"DWJZ"`
	LJJZ  string `json:"LJJZ"`
	JZZZL string `json:"JZZZL"`
}

// EastmoneyValuationBody is the JSON carried inside the jsonpgz() wrapper of
// the realtime estimate endpoint. GSZ/GSZZL are the estimated NAV and its
// growth percentage, GZTIME the estimate timestamp, JZRQ the date of the last
// published NAV. Estimate fields come back empty outside trading hours.
type EastmoneyValuationBody struct {
	Fundcode string `json:"fundcode"`
	Name     string `json:"name"`
	JZRQ     string `json:"jzrq"`
	DWJZ     string `json:"dwjz"`
	GSZ      string `json:"gsz"`
	GSZZL    string `json:"gszzl"`
	GZTime   string `json:"gztime"`
}

// EastmoneySearchResponse is the envelope of the fund suggest endpoint.
type EastmoneySearchResponse struct {
	ErrCode int                  `json:"ErrCode"`
	Datas   []EastmoneySearchRow `json:"Datas"`
}

type EastmoneySearchRow struct {
	Code     string `json:"CODE"`
	Name     string `json:"NAME"`
	FundType string `json:"FundBaseInfo.FTYPE"`
	Category int    `json:"CATEGORY"`
}
