package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/example/foodyham/internal/domain/order"
)

// BuildOrderConfirmationBody builds the HTML body of the order receipt
func BuildOrderConfirmationBody(o order.Order) string {
	var rows strings.Builder
	for _, item := range o.Items {
		name := item.Name
		if name == "" {
			name = item.Product.String()
		}
		fmt.Fprintf(&rows, `<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
			</tr>`,
			html.EscapeString(name),
			item.Quantity,
			formatDollars(item.Price.Float64()),
			formatDollars(item.Price.Float64()*float64(item.Quantity)),
		)
	}

	address := o.ShippingAddress
	if address == "" {
		address = "Pickup"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #f97316; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Thank you for your order!</h1>
	</div>
	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Order <strong>%s</strong> is %s. Estimated delivery: 30-45 minutes.</p>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left;">Item</th>
					<th style="padding: 12px; text-align: center;">Qty</th>
					<th style="padding: 12px; text-align: right;">Price</th>
					<th style="padding: 12px; text-align: right;">Subtotal</th>
				</tr>
			</thead>
			<tbody>
			%s
			</tbody>
		</table>
		<p style="text-align: right; font-size: 18px;"><strong>Total: %s</strong></p>
		<p>Delivering to: %s</p>
		<p style="color: #999; font-size: 12px;">Foodyham</p>
	</div>
</body>
</html>`,
		html.EscapeString(o.ID.String()),
		html.EscapeString(orDefault(o.Status, "pending")),
		rows.String(),
		formatDollars(o.TotalAmount.Float64()),
		html.EscapeString(address),
	)
}

// formatDollars renders v as $1,234.56
func formatDollars(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	whole, cents, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String() + "." + cents
	if neg {
		out = "-" + out
	}
	return out
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
