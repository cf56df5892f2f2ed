// pkg/registry/profile_schema.go
package registry

import (
	"encoding/json"
	"fmt"
)

// BuyerProfileSchemaJSON is the canonical schema for raw buyer profile
// documents produced by upstream extraction. It constrains the fields the
// assessment engine reads; extra extraction keys pass through untouched.
const BuyerProfileSchemaJSON = `{
  "type": "object",
  "required": [
    "PURCHASER_NAME_FROM_APS",
    "PURCHASER_NAME_FROM_ID",
    "PURCHASER_ADDRESS_FROM_APS",
    "PURCHASER_ADDRESS_FROM_ID",
    "PROPERTY_PRICE"
  ],
  "properties": {
    "PURCHASER_NAME_FROM_APS": {"type": "string", "minLength": 1},
    "PURCHASER_NAME_FROM_ID": {"type": "string", "minLength": 1},
    "PURCHASER_NAME_FROM_HOUSESIGMA": {"type": "string"},
    "PURCHASER_ADDRESS_FROM_APS": {"type": "string", "minLength": 1},
    "PURCHASER_ADDRESS_FROM_ID": {"type": "string", "minLength": 1},
    "PURCHASER_ADDRESS_LIST_FROM_LANDREGISTRY": {"type": "array", "items": {"type": "string"}},
    "PURCHASER_AGE_FROM_ID": {"type": "integer", "minimum": 0, "maximum": 130},
    "PURCHASER_ALL_PROPERTIES_PURCHASE_PRICE_FROM_LANDREGISTRY": {"type": "array", "items": {"type": "number"}},
    "PURCHASER_ALL_PROPERTIES_VALUE_FROM_AVM": {"type": "array", "items": {"type": "number"}},
    "PURCHASER_ALL_PROPERTIES_TOTAL_DEBT_FROM_PURVIEW": {"type": "array", "items": {"type": "number"}},
    "PURCHASER_ALL_PROPERTIES_EQUITY": {"type": "array", "items": {"type": "number"}},
    "PURCHASER_DEPOSIT_PAID_FROM_APS": {"type": "number", "minimum": 0},
    "DISTANCE": {"type": "number", "minimum": 0},
    "PROPERTY_PRICE": {"type": "number", "minimum": 0},
    "PRIMARY_RESIDENCE_PURCHASE_PRICE_FROM_LANDREGISTRY": {"type": "number"},
    "PRIMARY_RESIDENCE_VALUE_FROM_AVM": {"type": "number", "minimum": 0},
    "PRIMARY_RESIDENCE_TOTAL_DEBT_FROM_PURVIEW": {"type": "number"},
    "PRIMARY_RESIDENCE_EQUITY": {"type": "number"},
    "PRIMARY_RESIDENCE_TITLE_NAMES": {"type": "array", "items": {"type": "string"}},
    "OTHER_DEPOSIT_PAID_NAME_LIST_FROM_APS": {"type": "array", "items": {"type": "string"}},
    "MORTGAGE_APPROVAL": {"type": "boolean"},
    "MORTGAGE_APPROVAL_NAMES": {"type": "array", "items": {"type": "string"}},
    "CO_SIGNER_LIST_FROM_APS": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "CO_SIGNER_NAME_FROM_APS": {"type": "string"},
          "CO_SIGNER_NAME_FROM_ID": {"type": "string"},
          "CO_SIGNER_ADDRESS_FROM_APS": {"type": "string"},
          "CO_SIGNER_ADDRESS_LIST_FROM_LANDREGISTRY": {"type": "array", "items": {"type": "string"}},
          "CO_SIGNER_ALL_PROPERTIES_PURCHASE_PRICE_FROM_LANDREGISTRY": {"type": "array", "items": {"type": "number"}},
          "CO_SIGNER_ALL_PROPERTIES_VALUE_FROM_AVM": {"type": "array", "items": {"type": "number"}},
          "CO_SIGNER_ALL_PROPERTIES_TOTAL_DEBT_FROM_PURVIEW": {"type": "array", "items": {"type": "number"}},
          "CO_SIGNER_ALL_PROPERTIES_EQUITY": {"type": "array", "items": {"type": "number"}}
        }
      }
    }
  }
}`

// BuyerProfileSchema returns the parsed schema document.
func BuyerProfileSchema() map[string]interface{} {
	var schema map[string]interface{}
	if err := json.Unmarshal([]byte(BuyerProfileSchemaJSON), &schema); err != nil {
		panic(fmt.Sprintf("invalid embedded profile schema: %v", err))
	}
	return schema
}
