package dto

import "time"

// IndicatorSnapshot holds every technical indicator for one date. Nil means
// the trailing window is still too short for that indicator; the report
// collaborator serializes nils as explicit nulls, never drops the field.
type IndicatorSnapshot struct {
	Date time.Time `json:"date"`

	MA5  *float64 `json:"ma5"`
	MA10 *float64 `json:"ma10"`
	MA20 *float64 `json:"ma20"`
	MA60 *float64 `json:"ma60"`

	MACDDif  *float64 `json:"macd_dif"`
	MACDDea  *float64 `json:"macd_dea"`
	MACDHist *float64 `json:"macd_hist"`

	RSI6  *float64 `json:"rsi6"`
	RSI14 *float64 `json:"rsi14"`

	KDJK *float64 `json:"kdj_k"`
	KDJD *float64 `json:"kdj_d"`
	KDJJ *float64 `json:"kdj_j"`

	BollUpper  *float64 `json:"boll_upper"`
	BollMiddle *float64 `json:"boll_middle"`
	BollLower  *float64 `json:"boll_lower"`

	ATR14 *float64 `json:"atr14"`
}

// MA returns the moving average for a supported period, nil otherwise.
func (s *IndicatorSnapshot) MA(period int) *float64 {
	switch period {
	case 5:
		return s.MA5
	case 10:
		return s.MA10
	case 20:
		return s.MA20
	case 60:
		return s.MA60
	default:
		return nil
	}
}

// RSI returns the RSI for a supported period, nil otherwise.
func (s *IndicatorSnapshot) RSI(period int) *float64 {
	switch period {
	case 6:
		return s.RSI6
	case 14:
		return s.RSI14
	default:
		return nil
	}
}
