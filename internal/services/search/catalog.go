package search

import (
	"fmt"
	"os"

	"StockTerm/internal/domain/models"

	"gopkg.in/yaml.v3"
)

// StaticCatalog is an immutable list of instruments.
type StaticCatalog struct {
	entries []models.CatalogEntry
}

// NewStaticCatalog copies entries so later edits by the caller cannot leak in.
func NewStaticCatalog(entries []models.CatalogEntry) *StaticCatalog {
	return &StaticCatalog{entries: append([]models.CatalogEntry(nil), entries...)}
}

func (c *StaticCatalog) Entries() []models.CatalogEntry { return c.entries }

type catalogFile struct {
	Instruments []struct {
		Symbol string `yaml:"symbol"`
		Name   string `yaml:"name"`
		Sector string `yaml:"sector"`
	} `yaml:"instruments"`
}

// LoadCatalog reads a YAML catalog. An empty path yields the built-in list.
func LoadCatalog(path string) (*StaticCatalog, error) {
	if path == "" {
		return NewStaticCatalog(DefaultEntries), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	entries := make([]models.CatalogEntry, 0, len(f.Instruments))
	for _, in := range f.Instruments {
		if in.Symbol == "" {
			continue
		}
		entries = append(entries, models.CatalogEntry{Symbol: in.Symbol, Name: in.Name, Sector: in.Sector})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog %s: %w", path, ErrEmptyCatalog)
	}
	return NewStaticCatalog(entries), nil
}

// DefaultEntries covers NIFTY 50 and other widely traded NSE names.
var DefaultEntries = []models.CatalogEntry{
	{Symbol: "RELIANCE.NS", Name: "Reliance Industries Limited", Sector: "Energy"},
	{Symbol: "TCS.NS", Name: "Tata Consultancy Services Limited", Sector: "IT"},
	{Symbol: "HDFCBANK.NS", Name: "HDFC Bank Limited", Sector: "Banking"},
	{Symbol: "INFY.NS", Name: "Infosys Limited", Sector: "IT"},
	{Symbol: "ICICIBANK.NS", Name: "ICICI Bank Limited", Sector: "Banking"},
	{Symbol: "SBIN.NS", Name: "State Bank of India", Sector: "Banking"},
	{Symbol: "BHARTIARTL.NS", Name: "Bharti Airtel Limited", Sector: "Telecom"},
	{Symbol: "ITC.NS", Name: "ITC Limited", Sector: "FMCG"},
	{Symbol: "KOTAKBANK.NS", Name: "Kotak Mahindra Bank Limited", Sector: "Banking"},
	{Symbol: "LT.NS", Name: "Larsen & Toubro Limited", Sector: "Infrastructure"},
	{Symbol: "HINDUNILVR.NS", Name: "Hindustan Unilever Limited", Sector: "FMCG"},
	{Symbol: "AXISBANK.NS", Name: "Axis Bank Limited", Sector: "Banking"},
	{Symbol: "BAJFINANCE.NS", Name: "Bajaj Finance Limited", Sector: "Finance"},
	{Symbol: "MARUTI.NS", Name: "Maruti Suzuki India Limited", Sector: "Automobile"},
	{Symbol: "TITAN.NS", Name: "Titan Company Limited", Sector: "Consumer"},
	{Symbol: "ASIANPAINT.NS", Name: "Asian Paints Limited", Sector: "Chemicals"},
	{Symbol: "WIPRO.NS", Name: "Wipro Limited", Sector: "IT"},
	{Symbol: "HCLTECH.NS", Name: "HCL Technologies Limited", Sector: "IT"},
	{Symbol: "SUNPHARMA.NS", Name: "Sun Pharmaceutical Industries Limited", Sector: "Pharma"},
	{Symbol: "TATAMOTORS.NS", Name: "Tata Motors Limited", Sector: "Automobile"},
	{Symbol: "TATASTEEL.NS", Name: "Tata Steel Limited", Sector: "Metal"},
	{Symbol: "POWERGRID.NS", Name: "Power Grid Corporation of India Limited", Sector: "Power"},
	{Symbol: "NTPC.NS", Name: "NTPC Limited", Sector: "Power"},
	{Symbol: "ONGC.NS", Name: "Oil and Natural Gas Corporation Limited", Sector: "Energy"},
	{Symbol: "TECHM.NS", Name: "Tech Mahindra Limited", Sector: "IT"},
	{Symbol: "ULTRACEMCO.NS", Name: "UltraTech Cement Limited", Sector: "Cement"},
	{Symbol: "ADANIENT.NS", Name: "Adani Enterprises Limited", Sector: "Diversified"},
	{Symbol: "ADANIPORTS.NS", Name: "Adani Ports and Special Economic Zone Limited", Sector: "Infrastructure"},
	{Symbol: "JSWSTEEL.NS", Name: "JSW Steel Limited", Sector: "Metal"},
	{Symbol: "COALINDIA.NS", Name: "Coal India Limited", Sector: "Mining"},
	{Symbol: "BAJAJFINSV.NS", Name: "Bajaj Finserv Limited", Sector: "Finance"},
	{Symbol: "NESTLEIND.NS", Name: "Nestle India Limited", Sector: "FMCG"},
	{Symbol: "DRREDDY.NS", Name: "Dr Reddys Laboratories Limited", Sector: "Pharma"},
	{Symbol: "CIPLA.NS", Name: "Cipla Limited", Sector: "Pharma"},
	{Symbol: "DIVISLAB.NS", Name: "Divis Laboratories Limited", Sector: "Pharma"},
	{Symbol: "BRITANNIA.NS", Name: "Britannia Industries Limited", Sector: "FMCG"},
	{Symbol: "EICHERMOT.NS", Name: "Eicher Motors Limited", Sector: "Automobile"},
	{Symbol: "HEROMOTOCO.NS", Name: "Hero MotoCorp Limited", Sector: "Automobile"},
	{Symbol: "HINDALCO.NS", Name: "Hindalco Industries Limited", Sector: "Metal"},
	{Symbol: "GRASIM.NS", Name: "Grasim Industries Limited", Sector: "Cement"},
	{Symbol: "INDUSINDBK.NS", Name: "IndusInd Bank Limited", Sector: "Banking"},
	{Symbol: "APOLLOHOSP.NS", Name: "Apollo Hospitals Enterprise Limited", Sector: "Healthcare"},
	{Symbol: "TATACONSUM.NS", Name: "Tata Consumer Products Limited", Sector: "FMCG"},
	{Symbol: "SBILIFE.NS", Name: "SBI Life Insurance Company Limited", Sector: "Insurance"},
	{Symbol: "HDFCLIFE.NS", Name: "HDFC Life Insurance Company Limited", Sector: "Insurance"},
	{Symbol: "BPCL.NS", Name: "Bharat Petroleum Corporation Limited", Sector: "Energy"},
	{Symbol: "M&M.NS", Name: "Mahindra & Mahindra Limited", Sector: "Automobile"},
	{Symbol: "BAJAJ-AUTO.NS", Name: "Bajaj Auto Limited", Sector: "Automobile"},
	{Symbol: "SHRIRAMFIN.NS", Name: "Shriram Finance Limited", Sector: "Finance"},
	{Symbol: "ADANIGREEN.NS", Name: "Adani Green Energy Limited", Sector: "Power"},
	{Symbol: "ADANIPOWER.NS", Name: "Adani Power Limited", Sector: "Power"},
	{Symbol: "VEDL.NS", Name: "Vedanta Limited", Sector: "Metal"},
	{Symbol: "ZOMATO.NS", Name: "Zomato Limited", Sector: "Consumer"},
	{Symbol: "NYKAA.NS", Name: "FSN E-Commerce Ventures Limited Nykaa", Sector: "Consumer"},
	{Symbol: "PAYTM.NS", Name: "One97 Communications Limited Paytm", Sector: "Fintech"},
	{Symbol: "DMART.NS", Name: "Avenue Supermarts Limited DMart", Sector: "Retail"},
	{Symbol: "IRCTC.NS", Name: "Indian Railway Catering and Tourism Corporation Limited", Sector: "Tourism"},
	{Symbol: "HAL.NS", Name: "Hindustan Aeronautics Limited", Sector: "Defence"},
	{Symbol: "BEL.NS", Name: "Bharat Electronics Limited", Sector: "Defence"},
	{Symbol: "LIC.NS", Name: "Life Insurance Corporation of India", Sector: "Insurance"},
	{Symbol: "DLF.NS", Name: "DLF Limited", Sector: "Realty"},
	{Symbol: "IRFC.NS", Name: "Indian Railway Finance Corporation Limited", Sector: "Finance"},
	{Symbol: "PFC.NS", Name: "Power Finance Corporation Limited", Sector: "Finance"},
	{Symbol: "RECLTD.NS", Name: "REC Limited", Sector: "Finance"},
	{Symbol: "BANKBARODA.NS", Name: "Bank of Baroda", Sector: "Banking"},
	{Symbol: "PNB.NS", Name: "Punjab National Bank", Sector: "Banking"},
	{Symbol: "CANBK.NS", Name: "Canara Bank", Sector: "Banking"},
	{Symbol: "TATAPOWER.NS", Name: "Tata Power Company Limited", Sector: "Power"},
	{Symbol: "NHPC.NS", Name: "NHPC Limited", Sector: "Power"},
	{Symbol: "INDIGO.NS", Name: "InterGlobe Aviation Limited IndiGo", Sector: "Aviation"},
	{Symbol: "IDEA.NS", Name: "Vodafone Idea Limited", Sector: "Telecom"},
	{Symbol: "YESBANK.NS", Name: "Yes Bank Limited", Sector: "Banking"},
	{Symbol: "GMBREW.NS", Name: "GM Breweries Limited", Sector: "FMCG"},
	{Symbol: "UBL.NS", Name: "United Breweries Limited", Sector: "FMCG"},
	{Symbol: "RADICO.NS", Name: "Radico Khaitan Limited", Sector: "FMCG"},
	{Symbol: "VBL.NS", Name: "Varun Beverages Limited", Sector: "FMCG"},
	{Symbol: "MCDOWELL-N.NS", Name: "United Spirits Limited McDowell", Sector: "FMCG"},
	{Symbol: "INDHOTEL.NS", Name: "Indian Hotels Company Limited Taj", Sector: "Hotels"},
	{Symbol: "EIHOTEL.NS", Name: "EIH Limited Oberoi Hotels", Sector: "Hotels"},
	{Symbol: "LEMON.NS", Name: "Lemon Tree Hotels Limited", Sector: "Hotels"},
	{Symbol: "JUBLFOOD.NS", Name: "Jubilant Foodworks Limited", Sector: "Consumer"},
	{Symbol: "WESTLIFE.NS", Name: "Westlife Foodworld Limited McDonalds", Sector: "Consumer"},
	{Symbol: "DEVYANI.NS", Name: "Devyani International Limited KFC Pizza Hut", Sector: "Consumer"},
}
