package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/pr-poehali-dev/product-catalog-table/pkg/money"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/domain"
)

// OrderSubject is the subject line of every order notification.
const OrderSubject = "Новый заказ из каталога сувениров"

const receivedLayout = "02.01.2006 15:04"

var orderTemplate = template.Must(template.New("order").Funcs(template.FuncMap{
	"money": money.Format,
}).Parse(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #0EA5E9; border-bottom: 2px solid #0EA5E9; padding-bottom: 10px;">{{.Subject}}</h2>

    <div style="margin: 20px 0;">
      <h3 style="color: #555;">Данные покупателя:</h3>
      <p><strong>Имя:</strong> {{.Order.CustomerName}}</p>
      <p><strong>Email:</strong> {{.Order.CustomerEmail}}</p>
      <p><strong>Телефон:</strong> {{.Order.CustomerPhone}}</p>
      {{- if .Order.Comment}}
      <p><strong>Комментарий:</strong> {{.Order.Comment}}</p>
      {{- end}}
    </div>

    <div style="margin: 20px 0;">
      <h3 style="color: #555;">Состав заказа:</h3>
      <table style="width: 100%; border-collapse: collapse;">
        <thead>
          <tr style="background-color: #f8f9fa;">
            <th style="padding: 10px; text-align: left; border-bottom: 2px solid #ddd;">Товар</th>
            <th style="padding: 10px; text-align: center; border-bottom: 2px solid #ddd;">Кол-во</th>
            <th style="padding: 10px; text-align: right; border-bottom: 2px solid #ddd;">Цена</th>
            <th style="padding: 10px; text-align: right; border-bottom: 2px solid #ddd;">Сумма</th>
          </tr>
        </thead>
        <tbody>
        {{- range .Order.Items}}
          <tr>
            <td style="padding: 10px; border-bottom: 1px solid #eee;">{{.Name}}</td>
            <td style="padding: 10px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}} шт.</td>
            <td style="padding: 10px; border-bottom: 1px solid #eee; text-align: right;">{{money .Price}}</td>
            <td style="padding: 10px; border-bottom: 1px solid #eee; text-align: right; font-weight: bold;">{{money .Total}}</td>
          </tr>
        {{- end}}
        </tbody>
      </table>
    </div>

    <div style="margin: 20px 0; padding: 15px; background-color: #f8f9fa; border-radius: 5px;">
      <h3 style="margin: 0; color: #0EA5E9;">Итого: {{money .Order.TotalAmount}}</h3>
    </div>

    <p style="color: #999; font-size: 12px; margin-top: 30px;">Заказ получен: {{.ReceivedAt}}</p>
  </div>
</body>
</html>
`))

type orderView struct {
	Subject    string
	Order      *domain.Order
	ReceivedAt string
}

// RenderOrder builds the admin notification for o addressed from -> to.
func RenderOrder(o *domain.Order, from, to string) (*Message, error) {
	var buf bytes.Buffer
	err := orderTemplate.Execute(&buf, orderView{
		Subject:    OrderSubject,
		Order:      o,
		ReceivedAt: o.ReceivedAt.Format(receivedLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("render order e-mail: %w", err)
	}

	return &Message{
		From:    from,
		To:      to,
		Subject: OrderSubject,
		HTML:    buf.String(),
		Text:    renderText(o),
	}, nil
}

// renderText is the plain-text alternative of the HTML body.
func renderText(o *domain.Order) string {
	var b strings.Builder
	b.WriteString(OrderSubject + "\n\n")
	fmt.Fprintf(&b, "Имя: %s\nEmail: %s\nТелефон: %s\n", o.CustomerName, o.CustomerEmail, o.CustomerPhone)
	if o.Comment != "" {
		fmt.Fprintf(&b, "Комментарий: %s\n", o.Comment)
	}
	b.WriteString("\nСостав заказа:\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "- %s, %d шт. x %s = %s\n", item.Name, item.Quantity, money.Format(item.Price), money.Format(item.Total))
	}
	fmt.Fprintf(&b, "\nИтого: %s\n", money.Format(o.TotalAmount))
	fmt.Fprintf(&b, "Заказ получен: %s\n", o.ReceivedAt.Format(receivedLayout))
	return b.String()
}
