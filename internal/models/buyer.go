// internal/models/buyer.go
package models

// CoSigner holds the cross-referenced records for a single co-signer on the
// agreement of purchase and sale.
type CoSigner struct {
	NameFromAPS                 string    `json:"CO_SIGNER_NAME_FROM_APS"`
	NameFromID                  string    `json:"CO_SIGNER_NAME_FROM_ID"`
	AddressFromAPS              string    `json:"CO_SIGNER_ADDRESS_FROM_APS"`
	AddressListFromLandRegistry []string  `json:"CO_SIGNER_ADDRESS_LIST_FROM_LANDREGISTRY"`
	AllPropertiesPurchasePrice  []float64 `json:"CO_SIGNER_ALL_PROPERTIES_PURCHASE_PRICE_FROM_LANDREGISTRY"`
	AllPropertiesValueFromAVM   []float64 `json:"CO_SIGNER_ALL_PROPERTIES_VALUE_FROM_AVM"`
	AllPropertiesTotalDebt      []float64 `json:"CO_SIGNER_ALL_PROPERTIES_TOTAL_DEBT_FROM_PURVIEW"`
	AllPropertiesEquity         []float64 `json:"CO_SIGNER_ALL_PROPERTIES_EQUITY"`
}

// BuyerProfile is the full cross-referenced input record for one assessment.
// Field tags preserve the upstream document-extraction key names so that
// profiles flow through workflow variables and the HTTP API unchanged.
type BuyerProfile struct {
	NameFromAPS                 string     `json:"PURCHASER_NAME_FROM_APS"`
	NameFromID                  string     `json:"PURCHASER_NAME_FROM_ID"`
	NameFromHouseSigma          string     `json:"PURCHASER_NAME_FROM_HOUSESIGMA,omitempty"`
	AddressFromAPS              string     `json:"PURCHASER_ADDRESS_FROM_APS"`
	AddressFromID               string     `json:"PURCHASER_ADDRESS_FROM_ID"`
	AddressListFromLandRegistry []string   `json:"PURCHASER_ADDRESS_LIST_FROM_LANDREGISTRY"`
	Age                         int        `json:"PURCHASER_AGE_FROM_ID"`
	AllPropertiesPurchasePrice  []float64  `json:"PURCHASER_ALL_PROPERTIES_PURCHASE_PRICE_FROM_LANDREGISTRY"`
	AllPropertiesValueFromAVM   []float64  `json:"PURCHASER_ALL_PROPERTIES_VALUE_FROM_AVM"`
	AllPropertiesTotalDebt      []float64  `json:"PURCHASER_ALL_PROPERTIES_TOTAL_DEBT_FROM_PURVIEW"`
	AllPropertiesEquity         []float64  `json:"PURCHASER_ALL_PROPERTIES_EQUITY"`
	DepositPaid                 float64    `json:"PURCHASER_DEPOSIT_PAID_FROM_APS"`
	IDIssueDate                 string     `json:"PURCHASER_ID_ISSUE_DATE"`
	DriverLicenseType           string     `json:"PURCHASER_DRIVER_LICENSE_TYPE"`
	CoSigners                   []CoSigner `json:"CO_SIGNER_LIST_FROM_APS"`
	Distance                    float64    `json:"DISTANCE"`

	PrimaryResidencePurchasePrice float64  `json:"PRIMARY_RESIDENCE_PURCHASE_PRICE_FROM_LANDREGISTRY"`
	PrimaryResidenceValueFromAVM  float64  `json:"PRIMARY_RESIDENCE_VALUE_FROM_AVM"`
	PrimaryResidenceTotalDebt     float64  `json:"PRIMARY_RESIDENCE_TOTAL_DEBT_FROM_PURVIEW"`
	PrimaryResidenceEquity        float64  `json:"PRIMARY_RESIDENCE_EQUITY"`
	PrimaryResidenceTitleNames    []string `json:"PRIMARY_RESIDENCE_TITLE_NAMES"`

	PropertyPrice         float64  `json:"PROPERTY_PRICE"`
	DepositPayerNames     []string `json:"OTHER_DEPOSIT_PAID_NAME_LIST_FROM_APS"`
	MortgageApproval      bool     `json:"MORTGAGE_APPROVAL"`
	MortgageApprovalNames []string `json:"MORTGAGE_APPROVAL_NAMES"`
}

// OwnsProperty reports whether the buyer already owns residential
// property: true when the primary-residence title list, the buyer's
// land-registry address list, or any co-signer's land-registry address
// list is non-empty.
func (p *BuyerProfile) OwnsProperty() bool {
	if len(p.PrimaryResidenceTitleNames) > 0 {
		return true
	}
	if len(p.AddressListFromLandRegistry) > 0 {
		return true
	}
	for _, cosigner := range p.CoSigners {
		if len(cosigner.AddressListFromLandRegistry) > 0 {
			return true
		}
	}
	return false
}
