package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"sportsstore/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// counterID is the reserved key of the item holding the id sequence.
const counterID int64 = 0

// DynamoAPI is the subset of *dynamodb.Client the product store calls.
type DynamoAPI interface {
	dynamodb.ScanAPIClient
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// DynamoProductRepository stores products in a table keyed by the numeric
// attribute `product_id`. Listing scans the table, so it suits small catalogs.
type DynamoProductRepository struct {
	client DynamoAPI
	table  string
}

func NewDynamoProductRepository(client DynamoAPI, table string) *DynamoProductRepository {
	return &DynamoProductRepository{client: client, table: table}
}

type ddbProduct struct {
	ProductID   int64  `dynamodbav:"product_id"`
	Name        string `dynamodbav:"name"`
	Description string `dynamodbav:"description,omitempty"`
	Category    string `dynamodbav:"category,omitempty"`
	Price       string `dynamodbav:"price"`
	CreatedAt   string `dynamodbav:"created_at"`
	UpdatedAt   string `dynamodbav:"updated_at"`
}

func toDDB(p *models.Product) ddbProduct {
	return ddbProduct{
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price.String(),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func (dp ddbProduct) toModel() models.Product {
	p := models.Product{
		ID:          dp.ProductID,
		Name:        dp.Name,
		Description: dp.Description,
		Category:    dp.Category,
	}
	if price, err := decimal.NewFromString(dp.Price); err == nil {
		p.Price = price
	}
	if t, err := time.Parse(time.RFC3339, dp.CreatedAt); err == nil {
		p.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, dp.UpdatedAt); err == nil {
		p.UpdatedAt = t
	}
	return p
}

func (d *DynamoProductRepository) key(id int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"product_id": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
	}
}

func (d *DynamoProductRepository) scanAll(ctx context.Context) ([]models.Product, error) {
	paginator := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{TableName: aws.String(d.table)})
	var products []models.Product
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		for _, item := range page.Items {
			var dp ddbProduct
			if err := attributevalue.UnmarshalMap(item, &dp); err != nil {
				return nil, fmt.Errorf("unmarshal item: %w", err)
			}
			if dp.ProductID == counterID {
				continue
			}
			products = append(products, dp.toModel())
		}
	}
	// scans come back in hash order
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (d *DynamoProductRepository) Products(ctx context.Context) ([]models.Product, error) {
	return d.scanAll(ctx)
}

func (d *DynamoProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	if id == counterID {
		return nil, ErrProductNotFound
	}
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: aws.String(d.table), Key: d.key(id)})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrProductNotFound
	}
	var dp ddbProduct
	if err := attributevalue.UnmarshalMap(out.Item, &dp); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	p := dp.toModel()
	return &p, nil
}

func (d *DynamoProductRepository) FindPage(ctx context.Context, category string, page, limit int) ([]models.Product, int64, error) {
	all, err := d.scanAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	var matched []models.Product
	for _, p := range all {
		if category == "" || p.Category == category {
			matched = append(matched, p)
		}
	}
	return paginate(matched, page, limit), int64(len(matched)), nil
}

func (d *DynamoProductRepository) Categories(ctx context.Context) ([]string, error) {
	all, err := d.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	return distinctCategories(all), nil
}

func (d *DynamoProductRepository) SaveProduct(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	var cond *string
	if product.ID == 0 {
		id, err := d.nextID(ctx)
		if err != nil {
			return err
		}
		product.ID = id
		product.CreatedAt = now
		cond = aws.String("attribute_not_exists(product_id)")
	} else {
		existing, err := d.FindByID(ctx, product.ID)
		if err != nil {
			return err
		}
		product.CreatedAt = existing.CreatedAt
		cond = aws.String("attribute_exists(product_id)")
	}
	product.UpdatedAt = now

	item, err := attributevalue.MarshalMap(toDDB(product))
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.table),
		Item:                item,
		ConditionExpression: cond,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (d *DynamoProductRepository) DeleteProduct(ctx context.Context, id int64) (*models.Product, error) {
	if id == counterID {
		return nil, ErrProductNotFound
	}
	out, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(d.table),
		Key:          d.key(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	if len(out.Attributes) == 0 {
		return nil, ErrProductNotFound
	}
	var dp ddbProduct
	if err := attributevalue.UnmarshalMap(out.Attributes, &dp); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	p := dp.toModel()
	return &p, nil
}

// nextID atomically bumps the sequence stored on the counter item.
func (d *DynamoProductRepository) nextID(ctx context.Context) (int64, error) {
	out, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(d.table),
		Key:              d.key(counterID),
		UpdateExpression: aws.String("ADD next_id :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("dynamodb id sequence failed: %w", err)
	}
	var seq struct {
		NextID int64 `dynamodbav:"next_id"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &seq); err != nil {
		return 0, fmt.Errorf("unmarshal id sequence: %w", err)
	}
	return seq.NextID, nil
}
