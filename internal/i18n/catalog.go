package i18n

// arabic maps English client-facing messages to their Arabic text.
var arabic = map[string]string{
	// generic
	"internal error":                   "حدث خطأ داخلي",
	"invalid request":                  "طلب غير صالح",
	"invalid json body":                "نص الطلب ليس JSON صالحًا",
	"request body too large":           "حجم الطلب كبير جدًا",
	"request timed out":                "انتهت مهلة الطلب",
	"rate limit exceeded":              "تم تجاوز عدد المحاولات المسموح، حاول لاحقًا",
	"route not found":                  "المسار غير موجود",
	"method not allowed":               "الطريقة غير مسموحة",
	"invalid id":                       "معرّف غير صالح",
	"invalid uuid":                     "معرّف غير صالح",
	"invalid data":                     "بيانات غير صالحة",
	"numeric value out of range":       "قيمة رقمية خارج النطاق المسموح",
	"referenced record does not exist": "السجل المرتبط غير موجود",
	"already exists":                   "موجود مسبقًا",
	"already approved":                 "تمت الموافقة مسبقًا",
	"already rejected":                 "تم الرفض مسبقًا",
	"already pending":                  "قيد المراجعة مسبقًا",
	"invalid filter":                   "مرشح غير صالح",
	"invalid pagination":               "قيم الصفحات غير صالحة",
	"limit must be a positive number":  "يجب أن يكون الحد رقمًا موجبًا",
	"offset must not be negative":      "يجب ألا تكون الإزاحة سالبة",
	"this field is required":           "هذا الحقل مطلوب",
	"value is too long":                "القيمة طويلة جدًا",
	"value is too short":               "القيمة قصيرة جدًا",
	"must be a valid email address":    "يجب أن يكون بريدًا إلكترونيًا صالحًا",
	"value is not allowed":             "القيمة غير مسموحة",
	"value is invalid":                 "القيمة غير صالحة",

	// auth
	"missing bearer token":                       "رمز الدخول مفقود",
	"invalid token":                              "رمز الدخول غير صالح",
	"token expired":                              "انتهت صلاحية رمز الدخول",
	"insufficient role":                          "ليست لديك صلاحية لهذا الإجراء",
	"invalid credentials":                        "البريد الإلكتروني أو كلمة المرور غير صحيحة",
	"account is blocked":                         "تم حظر الحساب",
	"invalid registration":                       "بيانات التسجيل غير صالحة",
	"email already registered":                   "البريد الإلكتروني مسجل مسبقًا",
	"name is required":                           "الاسم مطلوب",
	"email is required":                          "البريد الإلكتروني مطلوب",
	"password must be at least 8 characters":     "يجب ألا تقل كلمة المرور عن 8 أحرف",
	"password must contain a letter and a digit": "يجب أن تحتوي كلمة المرور على حرف ورقم",
	"password is too long":                       "كلمة المرور طويلة جدًا",
	"role must be user or company":               "يجب أن يكون الدور باحثًا عن عمل أو شركة",
	"refresh_token is required":                  "رمز التحديث مطلوب",
	"invalid refresh token":                      "رمز التحديث غير صالح",
	"refresh token revoked":                      "تم إلغاء رمز التحديث",
	"refresh token expired":                      "انتهت صلاحية رمز التحديث",
	"invalid password":                           "كلمة المرور غير صالحة",
	"current password is incorrect":              "كلمة المرور الحالية غير صحيحة",

	// users
	"user not found":                "المستخدم غير موجود",
	"invalid profile":               "بيانات الملف الشخصي غير صالحة",
	"at most 30 skills are allowed": "يسمح بثلاثين مهارة كحد أقصى",
	"language must be ar or en":     "يجب أن تكون اللغة ar أو en",

	// files
	"invalid file":          "ملف غير صالح",
	"file is required":      "الملف مطلوب",
	"file is empty":         "الملف فارغ",
	"unsupported file type": "نوع الملف غير مدعوم",
	"upload failed":         "فشل رفع الملف",
	"failed to read upload": "تعذر قراءة الملف المرفوع",

	// companies
	"company not found":                         "الشركة غير موجودة",
	"company already exists":                    "لديك ملف شركة مسبقًا",
	"invalid company":                           "بيانات الشركة غير صالحة",
	"name must be between 2 and 120 characters": "يجب أن يكون الاسم بين 2 و120 حرفًا",
	"cr_number must be 10 digits":               "يجب أن يتكون رقم السجل التجاري من 10 أرقام",
	"city is required":                          "المدينة مطلوبة",
	"website must be a valid http(s) url":       "يجب أن يكون الموقع الإلكتروني رابطًا صالحًا",
	"description is too long":                   "الوصف طويل جدًا",
	"commercial registration number already registered": "رقم السجل التجاري مسجل مسبقًا",

	// jobs
	"job not found":                                "الوظيفة غير موجودة",
	"invalid job":                                  "بيانات الوظيفة غير صالحة",
	"company profile is required":                  "يجب إنشاء ملف الشركة أولًا",
	"company is not approved":                      "لم تتم الموافقة على الشركة بعد",
	"job belongs to another company":               "الوظيفة تابعة لشركة أخرى",
	"title must be between 3 and 150 characters":   "يجب أن يكون العنوان بين 3 و150 حرفًا",
	"description is required":                      "الوصف مطلوب",
	"salary must not be negative":                  "يجب ألا يكون الراتب سالبًا",
	"salary_min must not exceed salary_max":        "يجب ألا يتجاوز الحد الأدنى للراتب الحد الأعلى",
	"salary must not exceed 1000000000":            "يجب ألا يتجاوز الراتب 1000000000",
	"employment_type must be full_time, part_time, remote, contract, or internship": "نوع التوظيف يجب أن يكون دوامًا كاملًا أو جزئيًا أو عن بعد أو عقدًا أو تدريبًا",

	// applications
	"application not found":                  "الطلب غير موجود",
	"invalid application":                    "بيانات الطلب غير صالحة",
	"already applied":                        "لقد تقدمت لهذه الوظيفة مسبقًا",
	"cv is required":                         "السيرة الذاتية مطلوبة",
	"upload a cv or add one to your profile": "ارفع سيرة ذاتية أو أضفها إلى ملفك الشخصي",
	"cover letter is too long":               "خطاب التقديم طويل جدًا",
	"application belongs to another user":    "الطلب تابع لمستخدم آخر",
	"application belongs to another company": "الطلب تابع لشركة أخرى",
	"application can no longer be withdrawn": "لم يعد بالإمكان سحب الطلب",
	"application status is final":            "حالة الطلب نهائية",
	"application status changed":             "تغيرت حالة الطلب، أعد التحميل وحاول مجددًا",
	"invalid status transition":              "تغيير الحالة غير مسموح",
	"status transition is not allowed":       "تغيير الحالة غير مسموح",
	"status must be submitted, reviewing, accepted, rejected, or withdrawn": "الحالة يجب أن تكون مقدم أو قيد المراجعة أو مقبول أو مرفوض أو مسحوب",

	// moderation
	"invalid status":                                "حالة غير صالحة",
	"invalid decision":                              "قرار غير صالح",
	"approval status changed":                       "تغيرت حالة المراجعة، أعد التحميل وحاول مجددًا",
	"reason is required when rejecting":             "سبب الرفض مطلوب",
	"reason must be at most 500 characters":         "يجب ألا يتجاوز السبب 500 حرف",
	"status must be approved or rejected":           "يجب أن تكون الحالة موافقة أو رفض",
	"status must be pending, approved, or rejected": "يجب أن تكون الحالة قيد المراجعة أو موافق عليها أو مرفوضة",
	"role must be user, company, or admin":          "يجب أن يكون الدور باحثًا عن عمل أو شركة أو مشرفًا",
	"cannot modify your own account":                "لا يمكنك تعديل حسابك",
	"cannot modify another admin":                   "لا يمكن تعديل حساب مشرف آخر",
}
