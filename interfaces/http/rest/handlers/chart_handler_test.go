package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kimtaewoo9/mansereok/application/queries"
	querybus "github.com/kimtaewoo9/mansereok/application/queries/bus"
	queryhandlers "github.com/kimtaewoo9/mansereok/application/queries/handlers"
	"github.com/kimtaewoo9/mansereok/application/services"
	"github.com/kimtaewoo9/mansereok/infrastructure/persistence/memory"
	"github.com/kimtaewoo9/mansereok/internal/testutil"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
	"github.com/kimtaewoo9/mansereok/pkg/observability"
)

func newTestHandler(t *testing.T) *ChartHandler {
	t.Helper()
	store := memory.NewAlmanacStore(testutil.Records1987())
	engine := services.NewManseEngine(store, services.EngineOptions{}, zap.NewNop())
	charts := queryhandlers.NewComputeChartHandler(engine, nil, nil, zap.NewNop())

	qb := querybus.NewQueryBus()
	require.NoError(t, qb.Register(queries.ComputeChartQuery{}, charts))
	require.NoError(t, qb.Register(queries.ComputeCompatibilityQuery{}, queryhandlers.NewComputeCompatibilityHandler(charts)))

	return NewChartHandler(qb,
		pkgerrors.NewErrorHandler(zap.NewNop(), false),
		observability.NewTracer("test", false),
		zap.NewNop(),
	)
}

func post(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestChartHandler_Calculate(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h.Calculate, `{"solar_date":"1987-02-13","solar_time":"14:30","gender":"MALE","is_lunar":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ChartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "1987-02-13", resp.Input.SolarDate)
	require.NotNil(t, resp.Input.SolarTime)
	assert.Equal(t, "14:30", *resp.Input.SolarTime)

	saju := resp.Saju
	assert.NotEmpty(t, saju.ChartID)
	assert.Equal(t, "BACKWARD", saju.Direction)
	assert.Equal(t, 3, saju.BigFortuneNumber)
	assert.Equal(t, 1990, saju.BigFortuneStart)
	assert.Equal(t, "1987-02-04 18:52", saju.SeasonStartTime)

	assert.Equal(t, "丁", saju.YearSky.Chinese)
	assert.Equal(t, "편재", saju.YearSky.TenStar)
	assert.Nil(t, saju.YearSky.Jijanggan, "stems carry no hidden stems")

	assert.Equal(t, "卯", saju.YearGround.Chinese)
	assert.Equal(t, "묘", saju.YearGround.Korean)
	assert.Equal(t, "목", saju.YearGround.FiveCircle)
	assert.Equal(t, "#4CAF50", saju.YearGround.FiveCircleColor)
	assert.Equal(t, "식신", saju.YearGround.TenStar)
	assert.Equal(t, "음", saju.YearGround.MinusPlus)
	require.NotNil(t, saju.YearGround.Jijanggan)
	require.NotNil(t, saju.YearGround.Jijanggan.First)
	assert.Equal(t, "甲", saju.YearGround.Jijanggan.First.Chinese)
	assert.Equal(t, 10, saju.YearGround.Jijanggan.First.Rate)
	assert.Nil(t, saju.YearGround.Jijanggan.Second)
	require.NotNil(t, saju.YearGround.Jijanggan.Third)
	assert.Equal(t, "乙", saju.YearGround.Jijanggan.Third.Chinese)
	assert.Equal(t, 20, saju.YearGround.Jijanggan.Third.Rate)

	require.NotNil(t, saju.TimeSky)
	require.NotNil(t, saju.TimeGround)
	elements := []struct {
		slot                                    string
		el                                      PillarElement
		chinese, fiveCircle, minusPlus, tenStar string
	}{
		{"year_sky", saju.YearSky, "丁", "화", "음", "편재"},
		{"year_ground", saju.YearGround, "卯", "목", "음", "식신"},
		{"month_sky", saju.MonthSky, "壬", "수", "양", "겁재"},
		{"month_ground", saju.MonthGround, "寅", "목", "양", "상관"},
		{"day_sky", saju.DaySky, "癸", "수", "음", "비견"},
		{"day_ground", saju.DayGround, "巳", "화", "음", "정재"},
		{"time_sky", *saju.TimeSky, "己", "토", "음", "편관"},
		{"time_ground", *saju.TimeGround, "未", "토", "음", "편관"},
	}
	for _, e := range elements {
		assert.Equal(t, e.chinese, e.el.Chinese, e.slot)
		assert.Equal(t, e.fiveCircle, e.el.FiveCircle, e.slot)
		assert.Equal(t, e.minusPlus, e.el.MinusPlus, e.slot)
		assert.Equal(t, e.tenStar, e.el.TenStar, e.slot)
	}

	require.Len(t, saju.GreatFortunes, 10)
	assert.Equal(t, "辛丑", saju.GreatFortunes[0].Chinese)
	assert.Equal(t, 3, saju.GreatFortunes[0].Age)
	assert.Equal(t, 1990, saju.GreatFortunes[0].Year)
	assert.Equal(t, "庚子", saju.GreatFortunes[1].Chinese)

	require.Len(t, saju.ElementBalance, 5)
	counts := map[string]int{}
	for _, share := range saju.ElementBalance {
		counts[share.Element] = share.Count
	}
	assert.Equal(t, map[string]int{"목": 2, "화": 2, "토": 2, "금": 0, "수": 2}, counts)
}

func TestChartHandler_CalculateWithoutTime(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h.Calculate, `{"solar_date":"1987-02-13","gender":"FEMALE","is_lunar":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var raw map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Nil(t, raw["input"]["solar_time"])
	assert.Nil(t, raw["saju"]["time_sky"])
	assert.Nil(t, raw["saju"]["time_ground"])
	assert.Equal(t, "癸", raw["saju"]["day_sky"].(map[string]interface{})["chinese"])
}

func TestChartHandler_CalculateLunar(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h.Calculate, `{"solar_date":"1987-01-16","solar_time":"14:30","gender":"MALE","is_lunar":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ChartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Input.IsLunar)
	assert.Equal(t, "1987-01-16", resp.Input.SolarDate)
	assert.Equal(t, "1987-02-13", resp.Saju.BirthSolarDate)
	assert.Equal(t, "癸", resp.Saju.DaySky.Chinese)
}

func TestChartHandler_CalculateCalendarType(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h.Calculate, `{"solar_date":"1987-01-16","solar_time":"14:30","gender":"M","calendar_type":"L"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ChartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Input.IsLunar)
	assert.Equal(t, "1987-02-13", resp.Saju.BirthSolarDate)

	rec = post(t, h.Calculate, `{"solar_date":"1987-02-13","gender":"M","calendar_type":"SOLAR"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Input.IsLunar)
	assert.Equal(t, "1987-02-13", resp.Saju.BirthSolarDate)
}

func TestChartHandler_Errors(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantType   string
	}{
		{"malformed json", `{"solar_date":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"solar_date":"1987-02-13","gender":"MALE","is_lunar":false,"city":"Seoul"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing gender", `{"solar_date":"1987-02-13","is_lunar":false}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing is_lunar", `{"solar_date":"1987-02-13","gender":"MALE"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad gender", `{"solar_date":"1987-02-13","gender":"X","is_lunar":false}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad time", `{"solar_date":"1987-02-13","solar_time":"25:00","gender":"MALE","is_lunar":false}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad date", `{"solar_date":"1987-13-01","gender":"MALE","is_lunar":false}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown calendar type", `{"solar_date":"1987-02-13","gender":"MALE","calendar_type":"JULIAN"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"calendar type contradicts is_lunar", `{"solar_date":"1987-02-13","gender":"MALE","is_lunar":true,"calendar_type":"S"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"date outside almanac", `{"solar_date":"2050-01-01","gender":"MALE","is_lunar":false}`, http.StatusNotFound, "DATA_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h.Calculate, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			var resp pkgerrors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.True(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Type)
		})
	}
}

func TestChartHandler_ValidationDetailsUseJSONNames(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h.Calculate, `{"is_lunar":false}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp pkgerrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Details, "solar_date")
	assert.Contains(t, resp.Details, "gender")
	assert.Contains(t, resp.Message, "gender is required")
}

func TestChartHandler_Compatibility(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h.Compatibility, `{
		"person1": {"solar_date":"1987-02-13","solar_time":"14:30","gender":"MALE","is_lunar":false},
		"person2": {"solar_date":"1987-02-13","solar_time":"23:45","gender":"FEMALE","is_lunar":false}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp CompatibilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "癸", resp.Person1.Saju.DaySky.Chinese)
	assert.Equal(t, "甲", resp.Person2.Saju.DaySky.Chinese, "late-night births roll over to the next day")
	require.NotNil(t, resp.Person2.Saju.TimeSky)
	assert.Equal(t, "甲", resp.Person2.Saju.TimeSky.Chinese)
	assert.Equal(t, "子", resp.Person2.Saju.TimeGround.Chinese)
}

func TestChartHandler_CompatibilityErrors(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h.Compatibility, `{"person1": {"solar_date":"1987-02-13","gender":"MALE","is_lunar":false}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, h.Compatibility, `{
		"person1": {"solar_date":"1987-02-13","gender":"MALE","is_lunar":false},
		"person2": {"solar_date":"2050-01-01","gender":"MALE","is_lunar":false}
	}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
