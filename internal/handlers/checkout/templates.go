package checkout

// HTML template for the hosted payment page. The BR-DGE SDK mounts
// hosted inputs for number, expiry and CVV into the containers under
// #comcarde-card-element; per-field validity gates the pay button, and
// submission tokenizes the card, posts the token to the process
// endpoint and follows the redirect it returns.
const payPageTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            max-width: 480px;
            margin: 50px auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .checkout {
            background: white;
            padding: 40px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .header {
            text-align: center;
            margin-bottom: 30px;
        }
        .amount {
            font-size: 28px;
            font-weight: bold;
            margin: 10px 0;
        }
        .description {
            color: #6b7280;
            font-size: 14px;
        }
        #comcarde-card-element {
            margin: 20px 0;
        }
        .field {
            margin-bottom: 12px;
        }
        .field label {
            display: block;
            font-size: 13px;
            color: #374151;
            margin-bottom: 4px;
        }
        .field-row {
            display: flex;
            gap: 12px;
        }
        .field-half {
            flex: 1;
        }
        .hosted-field {
            border: 1px solid #d1d5db;
            border-radius: 6px;
            padding: 12px;
            height: 44px;
            background: white;
        }
        .hosted-field.invalid {
            border-color: #ef4444;
        }
        #card-errors {
            color: #ef4444;
            font-size: 14px;
            min-height: 20px;
            margin-bottom: 12px;
        }
        button {
            width: 100%;
            padding: 14px;
            background: #2563eb;
            color: white;
            border: none;
            border-radius: 6px;
            font-size: 16px;
            cursor: pointer;
        }
        button:disabled {
            background: #93c5fd;
            cursor: not-allowed;
        }
        .test-banner {
            background: #fef3c7;
            color: #92400e;
            padding: 8px;
            border-radius: 6px;
            text-align: center;
            font-size: 13px;
            margin-bottom: 20px;
        }
    </style>
</head>
<body>
    <div class="checkout">
        {{if .TestMode}}<div class="test-banner">Test mode: no live payment will be taken</div>{{end}}
        <div class="header">
            <h2>Order {{.OrderNumber}}</h2>
            <div class="amount">{{.Amount}} {{.Currency}}</div>
            <div class="description">{{.Description}}</div>
        </div>
        <form id="payment-form">
            <div id="comcarde-card-element">
                <div class="field">
                    <label for="brdge-card-number">Card Number</label>
                    <div id="brdge-card-number" class="hosted-field"></div>
                </div>
                <div class="field-row">
                    <div class="field field-half">
                        <label for="brdge-card-expiry">Expiry Date</label>
                        <div id="brdge-card-expiry" class="hosted-field"></div>
                    </div>
                    <div class="field field-half">
                        <label for="brdge-card-cvv">CVV</label>
                        <div id="brdge-card-cvv" class="hosted-field"></div>
                    </div>
                </div>
            </div>
            <div id="card-errors" role="alert"></div>
            <input type="hidden" id="brdge-token" name="brdge-token" value="" />
            <button type="submit" id="submit-button" disabled>Pay now</button>
        </form>
    </div>
    <script src="{{.SDKURL}}"></script>
    <script>
        var form = document.getElementById('payment-form');
        var errorsEl = document.getElementById('card-errors');
        var submitButton = document.getElementById('submit-button');
        var tokenInput = document.getElementById('brdge-token');

        var hostedFields = null;
        var isFormValid = false;
        var tokenizing = false;

        function showError(message) {
            errorsEl.textContent = message;
            submitButton.disabled = !isFormValid;
        }

        comcarde.client.create({
            authorization: '{{.ClientKey}}'
        }, function(clientErr, clientInstance) {
            if (clientErr) {
                showError('Failed to initialize payment form. Please refresh and try again.');
                return;
            }

            comcarde.hostedFields.create({
                client: clientInstance,
                fields: {
                    number: {
                        selector: '#brdge-card-number',
                        placeholder: '1234 5678 9012 3456'
                    },
                    cvv: {
                        selector: '#brdge-card-cvv',
                        placeholder: '123'
                    },
                    expirationDate: {
                        selector: '#brdge-card-expiry',
                        placeholder: 'MM/YY'
                    }
                },
                styles: {
                    'input': {
                        'font-size': '14px',
                        'font-family': 'inherit',
                        'color': '#333'
                    },
                    'input.invalid': {
                        'color': '#e74c3c'
                    }
                }
            }, function(fieldsErr, fieldsInstance) {
                if (fieldsErr) {
                    showError('Payment form setup failed. Please refresh and try again.');
                    return;
                }

                hostedFields = fieldsInstance;

                var containers = {
                    number: 'brdge-card-number',
                    cvv: 'brdge-card-cvv',
                    expirationDate: 'brdge-card-expiry'
                };

                hostedFields.on('validityChange', function(event) {
                    var field = event.fields[event.emittedBy];
                    var container = document.getElementById(containers[event.emittedBy]);
                    if (container) {
                        container.classList.toggle('invalid', !field.isValid && !field.isPotentiallyValid);
                    }

                    isFormValid = Object.keys(event.fields).every(function(name) {
                        return event.fields[name].isValid;
                    });
                    submitButton.disabled = !isFormValid;
                });
            });
        });

        function submitPayment(token) {
            fetch('/api/v1/checkout/process', {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify({
                    order_id: {{.OrderID}},
                    order_key: '{{.OrderKey}}',
                    payment_token: token
                })
            })
            .then(function(resp) { return resp.json(); })
            .then(function(data) {
                if (data.result === 'success' && data.redirect) {
                    window.location.href = data.redirect;
                } else {
                    // The token was consumed by the attempt; the next
                    // submit must tokenize again.
                    tokenInput.value = '';
                    showError(data.message || 'Payment failed, please try again.');
                }
            })
            .catch(function() {
                tokenInput.value = '';
                showError('Payment failed, please try again.');
            });
        }

        form.addEventListener('submit', function(event) {
            event.preventDefault();

            // A token injected by an earlier pass means tokenization is
            // done; send it straight to the process endpoint.
            if (tokenInput.value) {
                submitPayment(tokenInput.value);
                return;
            }

            if (!hostedFields || tokenizing) {
                return;
            }

            errorsEl.textContent = '';
            tokenizing = true;
            submitButton.disabled = true;

            hostedFields.tokenize(function(tokenizeErr, payload) {
                tokenizing = false;
                if (tokenizeErr) {
                    showError('Payment processing failed. Please check your card details and try again.');
                    return;
                }

                tokenInput.value = payload.nonce;
                form.requestSubmit();
            });
        });
    </script>
</body>
</html>`

// HTML template for error pages shown to buyers.
const errorPageTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Payment Unavailable</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            max-width: 480px;
            margin: 50px auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .panel {
            background: white;
            padding: 40px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            text-align: center;
        }
        .message {
            font-size: 18px;
            color: #374151;
        }
    </style>
</head>
<body>
    <div class="panel">
        <div class="message">{{.Message}}</div>
        <p>Please return to the store and try again.</p>
    </div>
</body>
</html>`
