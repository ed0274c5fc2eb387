package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"ml-pipeline/core/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
)

const sageMakerServiceCode = "AmazonSageMaker"

// PricingAPI is the subset of the Price List client we call
type PricingAPI interface {
	GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error)
}

// PriceList looks up SageMaker training prices
type PriceList struct {
	api    PricingAPI
	region string
	now    func() time.Time
}

// NewPriceList creates a new Price List adapter for region
func NewPriceList(api PricingAPI, region string) *PriceList {
	return &PriceList{api: api, region: region, now: time.Now}
}

// priceListItem is the part of a Price List JSON document we read
type priceListItem struct {
	Terms struct {
		OnDemand map[string]struct {
			PriceDimensions map[string]struct {
				Unit         string            `json:"unit"`
				PricePerUnit map[string]string `json:"pricePerUnit"`
			} `json:"priceDimensions"`
		} `json:"OnDemand"`
	} `json:"terms"`
}

// FetchOnDemandPrice returns the hourly on-demand training price of instanceType
func (p *PriceList) FetchOnDemandPrice(ctx context.Context, instanceType string) (*models.InstancePrice, error) {
	result, err := p.api.GetProducts(ctx, &pricing.GetProductsInput{
		ServiceCode: aws.String(sageMakerServiceCode),
		Filters: []types.Filter{
			termMatch("instanceName", instanceType),
			termMatch("regionCode", p.region),
			termMatch("component", "Training"),
		},
		MaxResults: aws.Int32(10),
	})
	if err != nil {
		return nil, fmt.Errorf("pricing GetProducts %s: %w", instanceType, err)
	}

	for _, doc := range result.PriceList {
		price, ok, err := hourlyUSD(doc)
		if err != nil {
			return nil, err
		}
		if ok {
			return &models.InstancePrice{
				Provider:     models.ProviderAWS,
				InstanceType: instanceType,
				Region:       p.region,
				PricePerHour: price,
				LastUpdated:  p.now(),
			}, nil
		}
	}
	return nil, fmt.Errorf("no on-demand price for %s in %s", instanceType, p.region)
}

func termMatch(field, value string) types.Filter {
	return types.Filter{
		Type:  types.FilterTypeTermMatch,
		Field: aws.String(field),
		Value: aws.String(value),
	}
}

func hourlyUSD(doc string) (float64, bool, error) {
	var item priceListItem
	if err := json.Unmarshal([]byte(doc), &item); err != nil {
		return 0, false, fmt.Errorf("failed to decode price list item: %w", err)
	}
	for _, term := range item.Terms.OnDemand {
		for _, dim := range term.PriceDimensions {
			if dim.Unit != "Hrs" && dim.Unit != "Hours" {
				continue
			}
			usd, ok := dim.PricePerUnit["USD"]
			if !ok {
				continue
			}
			price, err := strconv.ParseFloat(usd, 64)
			if err != nil {
				return 0, false, fmt.Errorf("invalid USD price %q: %w", usd, err)
			}
			if price > 0 {
				return price, true, nil
			}
		}
	}
	return 0, false, nil
}
